package sync

import (
	"go-datasync/internal/common/api"
	"go-datasync/internal/config"
	"go-datasync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sync routes
func (h *SyncApi) Setup(app *fiber.App) {
	syncGroup := app.Group("/api/sync", middleware.AuthMiddleware(h.config.SkipAuth))

	syncGroup.Post("/run", h.controller.RunSync)
	syncGroup.Get("/stats", h.controller.GetStats)
	syncGroup.Get("/catalog", h.controller.GetCatalog)
	syncGroup.Delete("/tables/:table", h.controller.TruncateTable)
}
