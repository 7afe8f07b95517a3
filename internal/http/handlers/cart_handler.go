package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stagepass/internal/domain"
	applog "stagepass/internal/log"
	"stagepass/internal/repos"
	"stagepass/internal/services"
	"stagepass/internal/validate"
)

type CartHandler struct {
	Carts *services.CartManager
	Prods *repos.ProductRepo
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func (h *CartHandler) cartJSON(store *services.CartStore) fiber.Map {
	return fiber.Map{
		"items":          store.Lines(),
		"subtotal":       store.Subtotal().StringFixed(2),
		"totalItemCount": store.TotalItemCount(),
	}
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	store := h.Carts.ForSession(ensureSID(c))
	return c.JSON(h.cartJSON(store))
}

type addItemRequest struct {
	ProductID          int64  `json:"productId"`
	Quantity           int    `json:"quantity"`
	IsGift             bool   `json:"isGift"`
	GiftRecipientName  string `json:"giftRecipientName"`
	GiftRecipientEmail string `json:"giftRecipientEmail"`
	GiftMessage        string `json:"giftMessage"`
}

// Add merges the product into the session cart; the line's name, price and
// image come from the catalog row, never from the client.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if req.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing productId"})
	}

	p, err := h.Prods.Get(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	store := h.Carts.ForSession(sid)
	store.AddItem(domain.CartLine{
		ProductID:          p.ID,
		Name:               p.Name,
		UnitPrice:          p.Price,
		ImageURL:           p.ImageURL,
		Quantity:           validate.Qty(req.Quantity),
		IsGift:             req.IsGift,
		GiftRecipientName:  req.GiftRecipientName,
		GiftRecipientEmail: req.GiftRecipientEmail,
		GiftMessage:        req.GiftMessage,
	})

	applog.Info(c, "cart.add", map[string]any{"product_id": p.ID})
	return c.JSON(h.cartJSON(store))
}

// Update overwrites a line's quantity; zero removes it. Unknown product ids
// are a no-op so retries stay idempotent.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	store := h.Carts.ForSession(sid)
	store.SetQuantity(productID, req.Quantity)
	return c.JSON(h.cartJSON(store))
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	store := h.Carts.ForSession(sid)
	store.RemoveItem(productID)
	return c.JSON(h.cartJSON(store))
}
