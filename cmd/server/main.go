package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/careteam"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/medications"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/scheduling"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/vitals"
	"github.com/ryanjameskelley/joinomu-sub002/internal/handlers"
	"github.com/ryanjameskelley/joinomu-sub002/internal/logging"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"github.com/ryanjameskelley/joinomu-sub002/internal/routes"
	"github.com/ryanjameskelley/joinomu-sub002/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Treatment catalog
	cat, err := catalog.LoadFromFile(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load treatment catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	slog.Info("treatment catalog loaded", "treatments", len(cat.All()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	provisioningService := services.NewProvisioningService(database.DB, cat, cfg.ProvisioningPolicy)
	authService := services.NewAuthService(database.DB, cfg, provisioningService)
	reconciler := services.NewReconciler(database.DB, provisioningService, cfg.ReconcilerInterval, cfg.ReconcilerMaxRetries)
	reconciler.Start()

	// Features
	featureList := []features.Feature{
		careteam.New(),
		scheduling.New(),
		medications.New(),
		vitals.New(),
	}

	// Migrate feature models
	for _, f := range featureList {
		if modelList := f.Models(); len(modelList) > 0 {
			if err := database.MigrateModels(modelList); err != nil {
				slog.Error("feature migration failed", "feature", f.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("feature migrated", "feature", f.ID(), "models", len(modelList))
		}
	}

	// Seed the medication catalog
	if err := medications.SeedCatalog(database.DB); err != nil {
		slog.Error("medication catalog seed failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, provisioningService)
	adminHandler := handlers.NewAdminHandler(database.DB, authService, provisioningService, reconciler)
	profileHandler := handlers.NewProfileHandler(database.DB)
	healthHandler := handlers.NewHealthHandler(cat)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, cat, authHandler, adminHandler, profileHandler, healthHandler, featureList)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	reconciler.Stop()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
