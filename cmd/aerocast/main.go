package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/agent"
	httpapi "github.com/Hiro-Kanda/AeroCast-Engine/internal/api/http"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/config"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/format"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/scheduler"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/session"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	retry := weather.RetryPolicy{
		MaxRetries: cfg.RetryMaxAttempts,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}
	owm := weather.NewClient(httpClient, cfg.OpenWeatherAPIKey, retry)
	gateway := weather.NewGateway(owm, cfg.DisambiguateCities)

	sessions := session.NewStore(cfg.SessionTTL)
	formatter := format.NewOpenAIFormatter(cfg.FormatterModel)
	core := agent.New(sessions, gateway, formatter)

	// Periodic sweep of expired sessions.
	sched := scheduler.New(sessions, cfg.SessionCleanupInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "aerocast-engine",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "aerocast-engine",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, core)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
