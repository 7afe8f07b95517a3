package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stagepass/internal/domain"
	applog "stagepass/internal/log"
	"stagepass/internal/repos"
)

type SettingsHandler struct {
	Settings *repos.SettingsRepo
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing setting key"})
	}
	s, err := h.Settings.Get(key)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "setting not found"})
	}
	return c.JSON(fiber.Map{"value": s.Value})
}

func (h *SettingsHandler) Set(c *fiber.Ctx) error {
	var s domain.Setting
	if err := c.BodyParser(&s); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	s.Key = strings.TrimSpace(s.Key)
	if s.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing setting key"})
	}
	if err := h.Settings.Set(s); err != nil {
		applog.Error(c, "settings.set.fail", err, map[string]any{"key": s.Key})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not store setting"})
	}
	// Sensitive values are stored, not echoed.
	applog.Audit(c, "settings.set", map[string]any{"key": s.Key, "sensitive": s.IsSensitive})
	return c.JSON(fiber.Map{"key": s.Key, "stored": true})
}

func (h *SettingsHandler) Delete(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing setting key"})
	}
	if err := h.Settings.Delete(key); err != nil {
		applog.Error(c, "settings.delete.fail", err, map[string]any{"key": key})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not delete setting"})
	}
	applog.Audit(c, "settings.delete", map[string]any{"key": key})
	return c.SendStatus(fiber.StatusNoContent)
}
