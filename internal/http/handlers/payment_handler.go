package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	stripe "github.com/stripe/stripe-go/v80"

	applog "stagepass/internal/log"
	"stagepass/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

type createIntentRequest struct {
	Items  []services.IntentItem `json:"items"`
	Amount int64                 `json:"amount"` // integer minor units
}

// CreateIntent mints a provider payment intent for a cart snapshot. Each
// call mints a new intent; the client calls this once per checkout attempt.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no items"})
	}

	intent, err := h.Payments.CreateIntent(c.Context(), req.Items, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrAmountMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		var se *stripe.Error
		if errors.As(err, &se) {
			applog.Error(c, "payment.intent.provider", err, nil)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": se.Msg})
		}
		applog.Error(c, "payment.intent.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment provider unavailable"})
	}

	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}
