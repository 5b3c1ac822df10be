package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Phucht59/Face-detect/internal/domain"
)

type EmployeeRepository struct {
	pool PgxPool
}

func NewEmployeeRepository(pool PgxPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (code, name, gender, active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		employee.Code,
		employee.Name,
		employee.Gender,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("create employee: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT id, code, name, gender, active, created_at
		FROM employees
		WHERE id = $1
	`

	var employee domain.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Code,
		&employee.Name,
		&employee.Gender,
		&employee.Active,
		&employee.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by id: %w", err)
	}

	return &employee, nil
}

func (r *EmployeeRepository) GetByCode(ctx context.Context, code string) (*domain.Employee, error) {
	query := `
		SELECT id, code, name, gender, active, created_at
		FROM employees
		WHERE code = $1
	`

	var employee domain.Employee
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&employee.ID,
		&employee.Code,
		&employee.Name,
		&employee.Gender,
		&employee.Active,
		&employee.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by code: %w", err)
	}

	return &employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `
		SELECT id, code, name, gender, active, created_at
		FROM employees
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Code,
			&employee.Name,
			&employee.Gender,
			&employee.Active,
			&employee.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET code = $2, name = $3, gender = $4, active = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		employee.ID,
		employee.Code,
		employee.Name,
		employee.Gender,
		employee.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("update employee: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM employees
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}
