package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-datasync/internal/common/api"
	"go-datasync/internal/config"
	"go-datasync/internal/features/catalog"
	"go-datasync/internal/features/scheduler"
	"go-datasync/internal/features/source"
	"go-datasync/internal/features/store"
	sync_feature "go-datasync/internal/features/sync"
	"go-datasync/internal/features/system"
	"go-datasync/internal/logger"
	"go-datasync/internal/middleware"
	"go-datasync/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger + log ring
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Mapping catalog
			func(cfg *config.Config) (*catalog.Catalog, error) {
				return catalog.Load(cfg.CatalogPath)
			},

			// Source side
			func(cfg *config.Config) source.Signer { return source.NewTokenSigner(cfg) },
			source.NewClient,

			// Destination side
			store.NewBackend,
			store.NewWriter,

			// Orchestration
			func(cat *catalog.Catalog, client *source.Client, writer *store.Writer, log *zap.Logger) sync_feature.Service {
				return sync_feature.NewService(cat, client, writer, log)
			},
			func(writer *store.Writer) sync_feature.TableMaintainer { return writer },
			scheduler.NewService,

			// Controllers
			sync_feature.NewSyncController,

			// API Routes
			AsRoute(sync_feature.NewSyncApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewLogsApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, schedulerService scheduler.Service) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return schedulerService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return schedulerService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
