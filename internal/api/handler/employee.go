package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Phucht59/Face-detect/internal/domain"
)

type EmployeeServiceInterface interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeHandler struct {
	service EmployeeServiceInterface
}

func NewEmployeeHandler(service EmployeeServiceInterface) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

type employeeRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Active *bool  `json:"active"`
}

// Create POST /v1/employees
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	employee := domain.Employee{
		Code:   req.Code,
		Name:   req.Name,
		Gender: req.Gender,
		Active: true,
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := h.service.Create(c.Context(), &employee); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(employee)
}

// List GET /v1/employees
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	if employees == nil {
		employees = []domain.Employee{}
	}
	return c.JSON(employees)
}

// Get GET /v1/employees/:id
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	employee, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(employee)
}

// Update PUT /v1/employees/:id
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	current, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if req.Code != "" {
		current.Code = req.Code
	}
	if req.Name != "" {
		current.Name = req.Name
	}
	if req.Gender != "" {
		current.Gender = req.Gender
	}
	if req.Active != nil {
		current.Active = *req.Active
	}

	if err := h.service.Update(c.Context(), current); err != nil {
		return err
	}

	return c.JSON(current)
}

// Delete DELETE /v1/employees/:id
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseEmployeeID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseEmployeeID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.ErrValidationFailed.WithError(errors.New("id must be a positive integer"))
	}
	return id, nil
}
