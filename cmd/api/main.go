package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"talenthub-backend/internal/config"
	"talenthub-backend/internal/handler"
	"talenthub-backend/internal/middleware"
	"talenthub-backend/internal/repository"
	"talenthub-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (tick lease disabled)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, cfg)
	handlers := handler.NewHandlers(services)

	go runDispatchLoop(services, cfg.DispatchInterval)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	setupRoutes(app, handlers, repos, cfg)

	log.Printf("Server starting on port %s (dispatch interval %s)", cfg.Port, cfg.DispatchInterval)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runDispatchLoop drives the fan-out dispatcher on the configured cadence.
// The tick interval doubles as the due-window width, so consecutive ticks
// cover the timeline without gaps or overlaps.
func runDispatchLoop(services *service.Services, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		result, err := services.Fanout.RunTick(ctx, now.UTC())
		cancel()
		if err != nil {
			log.Printf("Dispatch tick failed: %v", err)
			continue
		}
		if result.NotificationsWritten > 0 {
			log.Printf("Dispatch tick: %d events considered, %d notifications written",
				result.EventsConsidered, result.NotificationsWritten)
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, repos *repository.Repositories, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	protected := v1.Group("", middleware.AuthRequired(cfg.JWTSecret, repos.User))

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	internal := protected.Group("/internal", middleware.RequireRole("admin"))
	internal.Post("/events/content", h.Dispatch.PublishContent)
	internal.Post("/dispatch/tick", h.Dispatch.RunTick)
}
