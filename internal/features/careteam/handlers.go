package careteam

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/authctx"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
)

type Handler struct {
	service *AssignmentService
}

func NewHandler(service *AssignmentService) *Handler {
	return &Handler{service: service}
}

type assignRequest struct {
	PatientID     uuid.UUID `json:"patient_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	TreatmentType string    `json:"treatment_type"`
}

func (h *Handler) Assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	assignment, err := h.service.Assign(req.PatientID, req.ProviderID, req.TreatmentType)
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrProviderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrAlreadyAssigned):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrUnknownTreatment), errors.Is(err, ErrProviderInactive):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

func (h *Handler) Unassign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid assignment id",
		})
	}

	if err := h.service.Unassign(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Active assignment not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Assignment ended"})
}

func (h *Handler) MyPanel(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	entries, err := h.service.ProviderPanel(userID)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"patients": entries, "count": len(entries)})
}

func (h *Handler) MyCareTeam(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	entries, err := h.service.PatientCareTeam(userID)
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
	return c.JSON(fiber.Map{"providers": entries, "count": len(entries)})
}
