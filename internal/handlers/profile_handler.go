package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ryanjameskelley/joinomu-sub002/internal/authctx"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Me returns the caller's profile plus its role record.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not provisioned yet",
		})
	}

	resp := fiber.Map{"profile": profile}

	switch profile.Role {
	case models.RoleProvider:
		var provider models.Provider
		if err := h.db.Preload("Schedules").Where("profile_id = ?", userID).First(&provider).Error; err == nil {
			resp["provider"] = provider
		}
	case models.RoleAdmin:
		var admin models.Admin
		if err := h.db.Where("profile_id = ?", userID).First(&admin).Error; err == nil {
			resp["admin"] = admin
		}
	default:
		var patient models.Patient
		if err := h.db.Where("profile_id = ?", userID).First(&patient).Error; err == nil {
			resp["patient"] = patient
		}
	}

	return c.JSON(resp)
}
