package careteam

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/middleware"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

type CareTeam struct{}

func New() *CareTeam {
	return &CareTeam{}
}

func (f *CareTeam) ID() string {
	return "careteam"
}

func (f *CareTeam) Models() []interface{} {
	return []interface{}{
		&PatientAssignment{},
	}
}

func (f *CareTeam) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewAssignmentService(db, cat))

	group := router.Group("/careteam")
	group.Get("/patients", middleware.RoleRequired(db, models.RoleProvider), handler.MyPanel)
	group.Get("/providers", middleware.RoleRequired(db, models.RolePatient), handler.MyCareTeam)
}

func (f *CareTeam) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog) {
	handler := NewHandler(NewAssignmentService(db, cat))

	router.Post("/assignments", handler.Assign)
	router.Delete("/assignments/:id", handler.Unassign)
}
