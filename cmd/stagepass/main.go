package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"stagepass/internal/config"
	"stagepass/internal/http/handlers"
	applog "stagepass/internal/log"
	"stagepass/internal/repos"
	"stagepass/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Storefront catalog (read-only; the cart references these rows by id)
	app.Get("/api/products", deps.ProductHandler.List)
	app.Get("/api/products/:id", deps.ProductHandler.Detail)

	// Cart
	app.Get("/api/cart", deps.CartHandler.View)
	app.Post("/api/cart/items", deps.CartHandler.Add)
	app.Put("/api/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/api/cart/items/:id", deps.CartHandler.Remove)

	// Checkout
	app.Post("/api/checkout/details", deps.CheckoutHandler.Details)
	app.Post("/api/checkout/back", deps.CheckoutHandler.Back)
	app.Post("/api/checkout/confirm", deps.CheckoutHandler.Confirm)
	app.Post("/api/create-payment-intent", deps.PaymentHandler.CreateIntent)
	app.Get("/api/orders/:id", deps.OrderHandler.View)

	// Auth (login throttled)
	app.Post("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/api/logout", authH.Logout)

	// Admin: catalog sync + settings
	admin := app.Group("/api/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/customcat/sync", limiter.New(limiter.Config{
		Max:        2,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.sync.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "sync already requested, slow down"})
		},
	}), deps.SyncHandler.Trigger)
	admin.Get("/customcat/status", deps.SyncHandler.Status)
	admin.Get("/settings/:key", deps.SettingsHandler.Get)
	admin.Post("/settings", deps.SettingsHandler.Set)
	admin.Delete("/settings/:key", deps.SettingsHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
