package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Phucht59/Face-detect/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. Satisfied by
// both *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EmployeeRepositoryInterface defines operations for employee data access
type EmployeeRepositoryInterface interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByCode(ctx context.Context, code string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

// SampleRepositoryInterface defines operations for enrollment sample data access
type SampleRepositoryInterface interface {
	Create(ctx context.Context, sample *domain.FaceSample) error
	ListAll(ctx context.Context) ([]domain.FaceSample, error)
	CountByEmployee(ctx context.Context, employeeID int64) (int, error)
	DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error)
}

// ArtifactRepositoryInterface defines operations for trained model persistence
type ArtifactRepositoryInterface interface {
	Save(ctx context.Context, artifact *domain.ModelArtifact) error
	LoadLatest(ctx context.Context) (*domain.ModelArtifact, error)
}

// AttendanceRepositoryInterface defines operations for the attendance ledger
type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	LastForEmployee(ctx context.Context, employeeID int64) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error)
}
