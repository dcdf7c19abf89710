package vitals

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

type Vitals struct{}

func New() *Vitals {
	return &Vitals{}
}

func (f *Vitals) ID() string {
	return "vitals"
}

func (f *Vitals) Models() []interface{} {
	return []interface{}{
		&HealthMetric{},
	}
}

func (f *Vitals) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewService(db))

	group := router.Group("/vitals")
	group.Post("/metrics", middleware.RoleRequired(db, models.RolePatient), handler.Record)
	group.Get("/metrics", middleware.RoleRequired(db, models.RolePatient), handler.List)
}

func (f *Vitals) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewService(db))

	router.Post("/vitals/generate", handler.Generate)
}
