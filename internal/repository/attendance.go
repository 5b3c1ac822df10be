package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Phucht59/Face-detect/internal/domain"
)

const defaultAttendanceLimit = 100

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_log (employee_id, name, check_type, score, is_unknown, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		record.EmployeeID,
		record.Name,
		record.CheckType,
		record.Score,
		record.IsUnknown,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}

	return nil
}

// LastForEmployee returns the most recent check event for one employee, used
// to decide the IN/OUT direction and enforce the minimum check-in gap.
func (r *AttendanceRepository) LastForEmployee(ctx context.Context, employeeID int64) (*domain.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.employee_id, e.code, a.name, a.check_type, a.score, a.is_unknown, a.created_at
		FROM attendance_log a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT 1
	`

	var record domain.AttendanceRecord
	err := r.pool.QueryRow(ctx, query, employeeID).Scan(
		&record.ID,
		&record.EmployeeID,
		&record.Code,
		&record.Name,
		&record.CheckType,
		&record.Score,
		&record.IsUnknown,
		&record.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last attendance record: %w", err)
	}

	return &record, nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.employee_id, COALESCE(e.code, ''), a.name, a.check_type, a.score, a.is_unknown, a.created_at
		FROM attendance_log a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE 1=1
	`

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EmployeeID != nil {
		query += " AND a.employee_id = " + arg(*filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		query += " AND a.created_at >= " + arg(filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND a.created_at < " + arg(filter.To)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultAttendanceLimit {
		limit = defaultAttendanceLimit
	}
	query += " ORDER BY a.created_at DESC, a.id DESC LIMIT " + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord
		if err := rows.Scan(
			&record.ID,
			&record.EmployeeID,
			&record.Code,
			&record.Name,
			&record.CheckType,
			&record.Score,
			&record.IsUnknown,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}

	return records, nil
}
