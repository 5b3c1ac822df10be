package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/service"
)

// AttendanceServiceInterface is the recognition core as the handlers see it.
type AttendanceServiceInterface interface {
	Enroll(ctx context.Context, employeeID int64, image []byte) (*service.EnrollResult, error)
	Recognize(ctx context.Context, image []byte) (*service.CheckinResult, error)
	Retrain(ctx context.Context) (*domain.TrainingMetrics, error)
	ActiveModel() (*domain.TrainingMetrics, error)
	History(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	service AttendanceServiceInterface
}

func NewAttendanceHandler(service AttendanceServiceInterface) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Enroll POST /v1/enroll - add one face capture to an employee's training pool
func (h *AttendanceHandler) Enroll(c *fiber.Ctx) error {
	employeeID, err := extractEmployeeID(c)
	if err != nil {
		return err
	}

	imageBytes, err := extractImage(c)
	if err != nil {
		return err
	}

	result, err := h.service.Enroll(c.Context(), employeeID, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Recognize POST /v1/recognize - identify the face and record attendance
func (h *AttendanceHandler) Recognize(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c)
	if err != nil {
		return err
	}

	result, err := h.service.Recognize(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Retrain POST /v1/retrain - train a new model over the current pool
func (h *AttendanceHandler) Retrain(c *fiber.Ctx) error {
	metrics, err := h.service.Retrain(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(metrics)
}

// Model GET /v1/model - metrics of the active model
func (h *AttendanceHandler) Model(c *fiber.Ctx) error {
	metrics, err := h.service.ActiveModel()
	if err != nil {
		return err
	}

	return c.JSON(metrics)
}

// History GET /v1/attendance - attendance records, newest first
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	var filter domain.AttendanceFilter

	if raw := c.Query("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.ErrValidationFailed.WithError(errors.New("employee_id must be an integer"))
		}
		filter.EmployeeID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return domain.ErrValidationFailed.WithError(errors.New("limit must be a positive integer"))
		}
		filter.Limit = limit
	}

	records, err := h.service.History(c.Context(), filter)
	if err != nil {
		return err
	}

	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return c.JSON(records)
}

// extractEmployeeID reads employee_id from the form on multipart requests and
// from the JSON body otherwise.
func extractEmployeeID(c *fiber.Ctx) (int64, error) {
	if raw := strings.TrimSpace(c.FormValue("employee_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, domain.ErrValidationFailed.WithError(errors.New("employee_id must be an integer"))
		}
		return id, nil
	}

	var body struct {
		EmployeeID int64 `json:"employee_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.EmployeeID == 0 {
		return 0, domain.ErrValidationFailed.WithError(errors.New("employee_id is required"))
	}
	return body.EmployeeID, nil
}
