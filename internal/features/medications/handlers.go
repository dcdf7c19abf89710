package medications

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/authctx"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Catalog(c *fiber.Ctx) error {
	meds, err := h.service.ListCatalog(c.Query("treatment_type"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"medications": meds, "count": len(meds)})
}

type preferenceRequest struct {
	MedicationID    uuid.UUID `json:"medication_id"`
	PreferredDosage string    `json:"preferred_dosage"`
	Notes           string    `json:"notes"`
}

func (h *Handler) SubmitPreference(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req preferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.PreferredDosage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "preferred_dosage is required",
		})
	}

	preference, err := h.service.SubmitPreference(userID, req.MedicationID, req.PreferredDosage, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrMedicationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrPendingPreference):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(preference)
}

func (h *Handler) MyPreferences(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	preferences, err := h.service.PatientPreferences(userID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"preferences": preferences, "count": len(preferences)})
}

func (h *Handler) PendingPreferences(c *fiber.Ctx) error {
	preferences, err := h.service.PendingPreferences()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"preferences": preferences, "count": len(preferences)})
}

type decisionRequest struct {
	Approve bool   `json:"approve"`
	Dosage  string `json:"dosage"`
	Notes   string `json:"notes"`
}

func (h *Handler) Decide(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	preferenceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid preference id",
		})
	}

	var req decisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	approval, err := h.service.Decide(userID, preferenceID, req.Approve, req.Dosage, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrProviderNotFound), errors.Is(err, ErrPreferenceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrAlreadyDecided):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(approval)
}

func (h *Handler) MyOrders(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	orders, err := h.service.PatientOrders(userID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}
