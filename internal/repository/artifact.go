package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Phucht59/Face-detect/internal/domain"
)

type ArtifactRepository struct {
	pool PgxPool
}

func NewArtifactRepository(pool PgxPool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

// Save persists the full artifact as a JSON payload alongside denormalized
// metric columns for reporting queries.
func (r *ArtifactRepository) Save(ctx context.Context, artifact *domain.ModelArtifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	query := `
		INSERT INTO model_artifacts (version, payload, employee_count, sample_count, components, threshold, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		artifact.Version,
		payload,
		artifact.Metrics.EmployeeCount,
		artifact.Metrics.SampleCount,
		artifact.Metrics.Components,
		artifact.Threshold,
		artifact.TrainedAt,
	)
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	return nil
}

// LoadLatest returns the most recently trained artifact, or
// domain.ErrArtifactNotFound when none has ever been persisted.
func (r *ArtifactRepository) LoadLatest(ctx context.Context) (*domain.ModelArtifact, error) {
	query := `
		SELECT payload
		FROM model_artifacts
		ORDER BY trained_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query).Scan(&payload)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest artifact: %w", err)
	}

	var artifact domain.ModelArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}

	return &artifact, nil
}
