package repository

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/Phucht59/Face-detect/internal/domain"
)

type SampleRepository struct {
	pool PgxPool
}

func NewSampleRepository(pool PgxPool) *SampleRepository {
	return &SampleRepository{pool: pool}
}

func (r *SampleRepository) Create(ctx context.Context, sample *domain.FaceSample) error {
	query := `
		INSERT INTO face_samples (employee_id, embedding, captured_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query,
		sample.EmployeeID,
		toVector(sample.Vector),
		sample.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("create face sample: %w", err)
	}

	return nil
}

// ListAll returns every persisted sample ordered by capture time, used to
// rehydrate the in-memory enrollment store at startup.
func (r *SampleRepository) ListAll(ctx context.Context) ([]domain.FaceSample, error) {
	query := `
		SELECT employee_id, embedding, captured_at
		FROM face_samples
		ORDER BY captured_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list face samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.FaceSample
	for rows.Next() {
		var sample domain.FaceSample
		var embedding pgvector.Vector

		if err := rows.Scan(&sample.EmployeeID, &embedding, &sample.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan face sample: %w", err)
		}

		sample.Vector = fromVector(embedding)
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list face samples: %w", err)
	}

	return samples, nil
}

func (r *SampleRepository) CountByEmployee(ctx context.Context, employeeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM face_samples
		WHERE employee_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count face samples: %w", err)
	}

	return count, nil
}

func (r *SampleRepository) DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error) {
	query := `
		DELETE FROM face_samples
		WHERE employee_id = $1
	`

	result, err := r.pool.Exec(ctx, query, employeeID)
	if err != nil {
		return 0, fmt.Errorf("delete face samples: %w", err)
	}

	return result.RowsAffected(), nil
}

func toVector(values []float64) pgvector.Vector {
	floats := make([]float32, len(values))
	for i, v := range values {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(vec pgvector.Vector) []float64 {
	slice := vec.Slice()
	values := make([]float64, len(slice))
	for i, v := range slice {
		values[i] = float64(v)
	}
	return values
}
