package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"stagepass/internal/config"
	"stagepass/internal/http/handlers"
	"stagepass/internal/repos"
	"stagepass/internal/services"
)

// Minimal app setup mirroring the production route table.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, authSvc)
	app.Get("/api/products", deps.ProductHandler.List)
	app.Get("/api/products/:id", deps.ProductHandler.Detail)
	app.Get("/api/cart", deps.CartHandler.View)
	app.Post("/api/cart/items", deps.CartHandler.Add)
	app.Put("/api/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/api/cart/items/:id", deps.CartHandler.Remove)
	app.Post("/api/checkout/details", deps.CheckoutHandler.Details)
	app.Post("/api/checkout/back", deps.CheckoutHandler.Back)
	app.Post("/api/checkout/confirm", deps.CheckoutHandler.Confirm)
	app.Post("/api/create-payment-intent", deps.PaymentHandler.CreateIntent)
	app.Get("/api/orders/:id", deps.OrderHandler.View)
	app.Post("/api/login", authH.Login)
	app.Post("/api/logout", authH.Logout)
	admin := app.Group("/api/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/customcat/sync", deps.SyncHandler.Trigger)
	admin.Get("/customcat/status", deps.SyncHandler.Status)
	admin.Get("/settings/:key", deps.SettingsHandler.Get)
	admin.Post("/settings", deps.SettingsHandler.Set)
	admin.Delete("/settings/:key", deps.SettingsHandler.Delete)

	return app, db
}

func jsonReq(method, target, body string, cookies ...*http.Cookie) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sidCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}

func TestCartAPI_AddMergesLines(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":1,"quantity":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	sid := sidCookie(resp)
	if sid == nil {
		t.Fatal("no session cookie issued")
	}

	// adding the same product again merges, never duplicates the row
	resp, err = app.Test(jsonReq("POST", "/api/cart/items", `{"productId":1,"quantity":3}`, sid))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	items := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("want 1 line, got %d", len(items))
	}
	line := items[0].(map[string]any)
	if line["quantity"].(float64) != 5 {
		t.Fatalf("want merged quantity 5, got %v", line["quantity"])
	}
	if body["totalItemCount"].(float64) != 5 {
		t.Fatalf("bad totalItemCount: %v", body["totalItemCount"])
	}
}

func TestCartAPI_UpdateToZeroRemoves(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":1,"quantity":2}`))
	if err != nil {
		t.Fatal(err)
	}
	sid := sidCookie(resp)

	resp, err = app.Test(jsonReq("PUT", "/api/cart/items/1", `{"quantity":0}`, sid))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	if n := len(body["items"].([]any)); n != 0 {
		t.Fatalf("want empty cart, got %d lines", n)
	}
}

func TestCartAPI_UnknownProduct(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":99999,"quantity":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 for unknown product, got %d", resp.StatusCode)
	}
}

func TestCartAPI_ServerPricesWin(t *testing.T) {
	app, _ := newTestApp(t)

	// the client cannot set a price; the catalog row's price is used
	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":1,"quantity":1,"unitPrice":"0.01"}`))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	line := body["items"].([]any)[0].(map[string]any)
	if line["unitPrice"].(string) != "24.00" {
		t.Fatalf("want catalog price 24.00, got %v", line["unitPrice"])
	}
}
