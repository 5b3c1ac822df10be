package service

import (
	"context"
	"log/slog"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/enrollment"
)

type EmployeeRepositoryInterface interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type SampleRemover interface {
	DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error)
}

// EmployeeService handles the directory. Deleting an employee also drops
// their enrollment samples from both the database and the in-memory pool so
// the next retrain no longer sees them.
type EmployeeService struct {
	repo       EmployeeRepositoryInterface
	sampleRepo SampleRemover
	store      *enrollment.Store
	logger     *slog.Logger
}

func NewEmployeeService(repo EmployeeRepositoryInterface, sampleRepo SampleRemover, store *enrollment.Store, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:       repo,
		sampleRepo: sampleRepo,
		store:      store,
		logger:     logger,
	}
}

func (s *EmployeeService) Create(ctx context.Context, employee *domain.Employee) error {
	if employee.Code == "" || employee.Name == "" {
		return domain.ErrValidationFailed
	}
	return s.repo.Create(ctx, employee)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.List(ctx)
}

func (s *EmployeeService) Update(ctx context.Context, employee *domain.Employee) error {
	if employee.Code == "" || employee.Name == "" {
		return domain.ErrValidationFailed
	}
	return s.repo.Update(ctx, employee)
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Database rows cascade; the in-memory pool needs an explicit sweep.
	removed := s.store.RemoveEmployee(id)

	if _, err := s.sampleRepo.DeleteByEmployee(ctx, id); err != nil {
		s.logger.Warn("employee deleted but sample cleanup failed",
			slog.Int64("employee_id", id), slog.Any("error", err))
	}

	s.logger.Info("employee deleted",
		slog.Int64("employee_id", id), slog.Int("samples_removed", removed))
	return nil
}
