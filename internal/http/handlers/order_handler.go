package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stagepass/internal/log"
	"stagepass/internal/repos"
)

type OrderHandler struct {
	Orders *repos.OrderRepo
}

// View serves the confirmation lookup. Only the session that placed the
// order may read it; anything else is a 404, not a 403, to avoid probing.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}

	o, err := h.Orders.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}

	sid := c.Cookies("sid")
	if sid == "" || sid != o.SessionID {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	return c.JSON(o)
}
