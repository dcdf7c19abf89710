package scheduling

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

type Scheduling struct{}

func New() *Scheduling {
	return &Scheduling{}
}

func (f *Scheduling) ID() string {
	return "scheduling"
}

func (f *Scheduling) Models() []interface{} {
	return []interface{}{
		&Appointment{},
		&AvailabilityOverride{},
	}
}

func (f *Scheduling) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewService(db))

	group := router.Group("/scheduling")
	group.Get("/slots", handler.OpenSlots)
	group.Post("/appointments", middleware.RoleRequired(db, models.RolePatient), handler.Book)
	group.Delete("/appointments/:id", middleware.RoleRequired(db, models.RolePatient), handler.Cancel)
	group.Get("/appointments", middleware.RoleRequired(db, models.RolePatient), handler.MyAppointments)
	group.Get("/day", middleware.RoleRequired(db, models.RoleProvider), handler.MySchedule)
}

func (f *Scheduling) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewService(db))

	router.Post("/availability/overrides", handler.SetOverride)
}
