package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"stagepass/internal/repos"
)

type ProductHandler struct {
	Prods *repos.ProductRepo
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "24"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 24
	}
	featured := c.Query("featured") == "1"

	products, err := h.Prods.List(pageSize, (page-1)*pageSize, featured)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not load products"})
	}
	return c.JSON(fiber.Map{"products": products, "page": page})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}
