package system

import (
	"strconv"

	"go-datasync/internal/common/api"
	"go-datasync/internal/config"
	"go-datasync/internal/logger"
	"go-datasync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// LogsApi serves the most recent buffered log entries for operators.
type LogsApi struct {
	ring   *logger.RingWriter
	config *config.Config
}

func NewLogsApi(ring *logger.RingWriter, cfg *config.Config) api.Route {
	return &LogsApi{
		ring:   ring,
		config: cfg,
	}
}

// Setup registers system routes
func (h *LogsApi) Setup(app *fiber.App) {
	systemGroup := app.Group("/api/system", middleware.AuthMiddleware(h.config.SkipAuth))
	systemGroup.Get("/logs", h.RecentLogs)
}

func (h *LogsApi) RecentLogs(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	return c.JSON(fiber.Map{
		"data": h.ring.Recent(limit),
	})
}
