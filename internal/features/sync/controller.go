package sync

import (
	"context"
	"errors"

	"go-datasync/pkg/syncerr"

	"github.com/gofiber/fiber/v2"
)

// TableMaintainer is the maintenance slice of the store writer.
type TableMaintainer interface {
	Truncate(ctx context.Context, table string) error
}

type SyncController struct {
	Service    Service
	Maintainer TableMaintainer
}

func NewSyncController(service Service, maintainer TableMaintainer) *SyncController {
	return &SyncController{
		Service:    service,
		Maintainer: maintainer,
	}
}

// RunSync triggers one full pass and responds with the run's stats. A run
// already in progress yields 409; an aborted run yields 500 with stats.
func (ctrl *SyncController) RunSync(c *fiber.Ctx) error {
	if ctrl.Service.IsRunning() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "a sync run is already in progress",
		})
	}

	stats := ctrl.Service.Run(c.Context())

	status := fiber.StatusOK
	if stats.Aborted {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(stats)
}

// GetStats returns the last completed run's stats
func (ctrl *SyncController) GetStats(c *fiber.Ctx) error {
	stats := ctrl.Service.LastStats()
	if stats == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no sync run has completed yet",
		})
	}
	return c.JSON(stats)
}

// TruncateTable deletes all rows of one destination table. Maintenance
// only; never part of a sync run.
func (ctrl *SyncController) TruncateTable(c *fiber.Ctx) error {
	table := c.Params("table")

	if err := ctrl.Maintainer.Truncate(c.Context(), table); err != nil {
		var ve *syncerr.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "table truncated",
	})
}

// GetCatalog returns the loaded mapping catalog
func (ctrl *SyncController) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": ctrl.Service.Catalog(),
	})
}
