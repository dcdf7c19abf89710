package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features"
	"github.com/ryanjameskelley/joinomu-sub002/internal/handlers"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	cat *catalog.Catalog,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
	featureList []features.Feature,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public; stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	// Poll endpoint for clients waiting on post-signup provisioning.
	auth.Get("/provisioning/:id", authHandler.ProvisioningStatus)

	// Protected routes (JWT required) - apply middleware per route so
	// it never bleeds onto the public surface.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/me", middleware.JWTProtected(cfg), profileHandler.Me)

	// Admin surface (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/users", adminHandler.CreateUser)
	admin.Get("/provisioning/failures", adminHandler.ListProvisioningFailures)
	admin.Post("/provisioning/retry/:id", adminHandler.RetryProvisioning)
	admin.Post("/provisioning/sweep", adminHandler.SweepProvisioning)

	// Feature routes - protected group so JWT middleware stays off
	// public routes.
	protected := api.Group("/p", middleware.JWTProtected(cfg))
	for _, f := range featureList {
		f.RegisterRoutes(protected, db, cfg, cat)
		if af, ok := f.(features.AdminFeature); ok {
			af.RegisterAdminRoutes(admin, db, cfg, cat)
		}
	}
}
