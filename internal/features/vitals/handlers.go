package vitals

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

type recordRequest struct {
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (h *Handler) Record(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	metric, err := h.service.Record(userID, req.MetricType, req.Value, req.Unit, req.RecordedAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidReading):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, ErrPatientNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(metric)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var from, to time.Time
	if s := c.Query("from"); s != "" {
		from, _ = time.Parse("2006-01-02", s)
	}
	if s := c.Query("to"); s != "" {
		to, _ = time.Parse("2006-01-02", s)
	}

	metrics, err := h.service.List(userID, c.Query("metric_type"), from, to)
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
	return c.JSON(fiber.Map{"metrics": metrics, "count": len(metrics)})
}

type generateRequest struct {
	PatientID  uuid.UUID `json:"patient_id"`
	MetricType string    `json:"metric_type"`
	Days       int       `json:"days"`
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.MetricType == "" {
		req.MetricType = MetricWeight
	}

	count, err := h.service.Generate(req.PatientID, req.MetricType, req.Days)
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
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Synthetic series generated",
		"count":   count,
	})
}
