package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
)

type HealthHandler struct {
	catalog *catalog.Catalog
}

func NewHealthHandler(cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{catalog: cat}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:         "ok",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		DB:             dbStatus,
		TreatmentCount: len(h.catalog.All()),
	})
}
