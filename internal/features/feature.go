package features

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"gorm.io/gorm"
)

// Feature defines the interface every domain feature implements.
type Feature interface {
	// ID returns the unique feature identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is already prefixed and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog)
}

// AdminFeature extends Feature with admin-only route registration.
type AdminFeature interface {
	Feature

	// RegisterAdminRoutes mounts admin-only routes on the given group.
	// The group has both JWT and admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog)
}
