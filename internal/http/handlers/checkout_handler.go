package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stagepass/internal/domain"
	applog "stagepass/internal/log"
	"stagepass/internal/services"
	"stagepass/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// Details validates step one of checkout and, on success, enters the payment
// step and returns the intent's client secret.
func (h *CheckoutHandler) Details(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var d domain.CustomerDetails
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if errs := validate.CustomerDetails(&d); len(errs) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"fields": len(errs)})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "please correct the highlighted fields",
			"errors":  errs,
		})
	}

	intent, err := h.Checkout.SubmitDetails(c.Context(), sid, d)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":  "your cart is empty",
				"redirect": "/cart",
			})
		}
		if errors.Is(err, services.ErrAmountMismatch) || errors.Is(err, services.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		applog.Error(c, "checkout.intent.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "could not start payment, please try again",
		})
	}

	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret, "stage": "payment"})
}

// Back returns to the details step. The created intent is kept.
func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	h.Checkout.Back(ensureSID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm runs one payment confirmation attempt. Failures keep the checkout
// in the payment step; only success is terminal.
func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	sid := ensureSID(c)

	orderID, err := h.Checkout.ConfirmPayment(c.Context(), sid)
	if err != nil {
		var declined *services.PaymentDeclinedError
		switch {
		case errors.As(err, &declined):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"message": declined.Message})
		case errors.Is(err, services.ErrPaymentFailed):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"message": "Payment failed. Please try again."})
		case errors.Is(err, services.ErrConfirmInFlight):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "a payment is already being processed"})
		case errors.Is(err, services.ErrNotInPayment):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "checkout is not ready for payment"})
		}
		applog.Error(c, "checkout.confirm.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment could not be processed, please try again"})
	}

	applog.Audit(c, "checkout.success", map[string]any{"order_id": orderID})
	return c.JSON(fiber.Map{"orderId": orderID, "redirect": "/order/" + orderID})
}
