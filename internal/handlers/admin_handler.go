package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"github.com/ryanjameskelley/joinomu-sub002/internal/services"
	"gorm.io/gorm"
)

// AdminHandler covers the privileged surfaces: administrative user
// creation and provisioning-failure inspection/retry.
type AdminHandler struct {
	db           *gorm.DB
	authService  *services.AuthService
	provisioning *services.ProvisioningService
	reconciler   *services.Reconciler
}

func NewAdminHandler(db *gorm.DB, auth *services.AuthService, prov *services.ProvisioningService, rec *services.Reconciler) *AdminHandler {
	return &AdminHandler{db: db, authService: auth, provisioning: prov, reconciler: rec}
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.AdminCreateUser(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AdminHandler) ListProvisioningFailures(c *fiber.Ctx) error {
	var failures []models.ProvisioningFailure
	query := h.db.Order("created_at DESC").Limit(200)
	if c.Query("include_resolved") != "true" {
		query = query.Where("resolved = false")
	}
	if err := query.Find(&failures).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"failures": failures, "count": len(failures)})
}

// RetryProvisioning re-runs provisioning for one identity immediately.
func (h *AdminHandler) RetryProvisioning(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.provisioning.Reprovision(id); err != nil {
		if errors.Is(err, services.ErrIdentityNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Provisioning failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Provisioning completed", "user_id": id})
}

// SweepProvisioning forces a reconciler pass over all due failures.
func (h *AdminHandler) SweepProvisioning(c *fiber.Ctx) error {
	h.reconciler.Sweep()
	return c.JSON(fiber.Map{"message": "Reconciler sweep completed"})
}
