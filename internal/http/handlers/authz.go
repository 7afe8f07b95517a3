package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stagepass/internal/log"
	"stagepass/internal/services"
)

// RequireAdmin guards the admin surface (sync trigger, settings). Missing or
// non-admin sessions get a 404 so the surface stays undiscoverable.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
