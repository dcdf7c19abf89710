package medications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

type Medications struct{}

func New() *Medications {
	return &Medications{}
}

func (f *Medications) ID() string {
	return "medications"
}

func (f *Medications) Models() []interface{} {
	return []interface{}{
		&Medication{},
		&MedicationPreference{},
		&MedicationApproval{},
		&MedicationOrder{},
	}
}

func (f *Medications) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewService(db))

	group := router.Group("/medications")
	group.Get("/catalog", handler.Catalog)
	group.Post("/preferences", middleware.RoleRequired(db, models.RolePatient), handler.SubmitPreference)
	group.Get("/preferences", middleware.RoleRequired(db, models.RolePatient), handler.MyPreferences)
	group.Get("/orders", middleware.RoleRequired(db, models.RolePatient), handler.MyOrders)
	group.Get("/review", middleware.RoleRequired(db, models.RoleProvider), handler.PendingPreferences)
	group.Post("/review/:id", middleware.RoleRequired(db, models.RoleProvider), handler.Decide)
}
