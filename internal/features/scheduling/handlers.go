package scheduling

import (
	"errors"
	"time"

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

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// OpenSlots returns bookable slots for ?provider_id=...&date=YYYY-MM-DD.
func (h *Handler) OpenSlots(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Query("provider_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "provider_id is required",
		})
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be YYYY-MM-DD",
		})
	}

	slots, err := h.service.OpenSlots(providerID, date)
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
	return c.JSON(fiber.Map{"slots": slots, "count": len(slots)})
}

type bookRequest struct {
	ProviderID    uuid.UUID `json:"provider_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	TreatmentType string    `json:"treatment_type"`
	Notes         string    `json:"notes"`
}

func (h *Handler) Book(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be YYYY-MM-DD",
		})
	}

	appointment, err := h.service.Book(userID, BookRequest{
		ProviderID:    req.ProviderID,
		Date:          date,
		StartTime:     req.StartTime,
		TreatmentType: req.TreatmentType,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrProviderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid appointment id",
		})
	}

	if err := h.service.Cancel(userID, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"message": "Appointment cancelled"})
}

func (h *Handler) MyAppointments(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	appointments, err := h.service.PatientAppointments(userID)
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
	return c.JSON(fiber.Map{"appointments": appointments, "count": len(appointments)})
}

func (h *Handler) MySchedule(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		date = time.Now().Truncate(24 * time.Hour)
	}

	appointments, err := h.service.ProviderAppointments(userID, date)
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
	return c.JSON(fiber.Map{"appointments": appointments, "count": len(appointments)})
}

type overrideRequest struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Date       string    `json:"date"`
	Available  bool      `json:"available"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Reason     string    `json:"reason"`
}

func (h *Handler) SetOverride(c *fiber.Ctx) error {
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be YYYY-MM-DD",
		})
	}
	if req.Available && (ParseClock(req.StartTime) < 0 || ParseClock(req.EndTime) < 0) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "start_time and end_time are required for available overrides",
		})
	}

	override, err := h.service.SetOverride(req.ProviderID, date, req.Available, req.StartTime, req.EndTime, req.Reason)
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
	return c.Status(fiber.StatusCreated).JSON(override)
}
