package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/enrollment"
)

type MockEmployeeRepo struct {
	mock.Mock
}

func (m *MockEmployeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSampleRemover struct {
	mock.Mock
}

func (m *MockSampleRemover) DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(int64), args.Error(1)
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	tests := []struct {
		name     string
		employee domain.Employee
		wantErr  error
	}{
		{"missing code", domain.Employee{Name: "Alice"}, domain.ErrValidationFailed},
		{"missing name", domain.Employee{Code: "E001"}, domain.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockEmployeeRepo)
			svc := NewEmployeeService(repo, new(MockSampleRemover), enrollment.NewStore(), slog.Default())

			err := svc.Create(context.Background(), &tt.employee)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestEmployeeService_Create_DelegatesToRepo(t *testing.T) {
	repo := new(MockEmployeeRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewEmployeeService(repo, new(MockSampleRemover), enrollment.NewStore(), slog.Default())

	err := svc.Create(context.Background(), &domain.Employee{Code: "E001", Name: "Alice", Active: true})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEmployeeService_Delete_SweepsSamples(t *testing.T) {
	repo := new(MockEmployeeRepo)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	samples := new(MockSampleRemover)
	samples.On("DeleteByEmployee", mock.Anything, int64(7)).Return(int64(3), nil)

	store := enrollment.NewStore()
	store.Add(7, []float64{1, 0}, time.Now())
	store.Add(7, []float64{0, 1}, time.Now())
	store.Add(8, []float64{1, 1}, time.Now())

	svc := NewEmployeeService(repo, samples, store, slog.Default())

	err := svc.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "only the other employee's sample should remain")
	assert.Equal(t, 0, store.CountFor(7))
	samples.AssertExpectations(t)
}

func TestEmployeeService_Delete_NotFoundLeavesPoolUntouched(t *testing.T) {
	repo := new(MockEmployeeRepo)
	repo.On("Delete", mock.Anything, int64(9)).Return(domain.ErrEmployeeNotFound)

	store := enrollment.NewStore()
	store.Add(9, []float64{1, 0}, time.Now())

	svc := NewEmployeeService(repo, new(MockSampleRemover), store, slog.Default())

	err := svc.Delete(context.Background(), 9)

	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestEmployeeService_Delete_SampleCleanupFailureIsNotFatal(t *testing.T) {
	repo := new(MockEmployeeRepo)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	samples := new(MockSampleRemover)
	samples.On("DeleteByEmployee", mock.Anything, int64(7)).
		Return(int64(0), errors.New("connection reset"))

	svc := NewEmployeeService(repo, samples, enrollment.NewStore(), slog.Default())

	err := svc.Delete(context.Background(), 7)

	require.NoError(t, err)
}
