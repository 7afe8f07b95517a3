package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stagepass/internal/customcat"
	applog "stagepass/internal/log"
	"stagepass/internal/services"
)

type SyncHandler struct {
	Sync *services.SyncService
}

// Trigger runs one CustomCat import. Operator-triggered only; the response
// carries the per-run breakdown so the admin sees exactly what happened.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	results, err := h.Sync.Run(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrSyncNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		var probe *customcat.ProbeError
		if errors.As(err, &probe) {
			applog.Error(c, "customcat.sync.probe", err, map[string]any{"attempts": probe.Attempts})
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success":   false,
				"message":   "no CustomCat endpoint responded",
				"endpoints": probe.Attempts,
			})
		}
		applog.Error(c, "customcat.sync.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "sync failed",
		})
	}

	applog.Audit(c, "customcat.sync", map[string]any{
		"total": results.Total, "added": results.Added,
		"updated": results.Updated, "skipped": results.Skipped,
	})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "catalog sync complete",
		"results": results,
	})
}

// Status reports whether the API key is configured, without any network call.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	configured, message := h.Sync.Status()
	return c.JSON(fiber.Map{"configured": configured, "message": message})
}
