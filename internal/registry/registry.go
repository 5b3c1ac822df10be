// Package registry owns the process-wide active model: a single
// atomically-swapped reference that many concurrent recognition calls read
// without contending with the writer.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Phucht59/Face-detect/internal/domain"
)

// ArtifactRepository is the durable store behind the registry.
type ArtifactRepository interface {
	Save(ctx context.Context, artifact *domain.ModelArtifact) error
	LoadLatest(ctx context.Context) (*domain.ModelArtifact, error)
}

type Registry struct {
	active atomic.Pointer[domain.ModelArtifact]
	repo   ArtifactRepository
	logger *slog.Logger
}

func New(repo ArtifactRepository, logger *slog.Logger) *Registry {
	return &Registry{repo: repo, logger: logger}
}

// Active returns the currently published artifact. Readers either see a full
// artifact or domain.ErrModelNotReady; never a partial one.
func (r *Registry) Active() (*domain.ModelArtifact, error) {
	artifact := r.active.Load()
	if artifact == nil {
		return nil, domain.ErrModelNotReady
	}
	return artifact, nil
}

// Publish persists the artifact and then swaps it in as the active model.
// The in-memory reference is only replaced after the durable write succeeds,
// so a crash right after a retrain never loses a model that readers already
// saw.
func (r *Registry) Publish(ctx context.Context, artifact *domain.ModelArtifact) error {
	if err := r.repo.Save(ctx, artifact); err != nil {
		return fmt.Errorf("persist artifact %s: %w", artifact.Version, err)
	}

	r.active.Store(artifact)

	r.logger.Info("model artifact published",
		slog.String("version", artifact.Version.String()),
		slog.Int("employees", artifact.Metrics.EmployeeCount),
		slog.Int("samples", artifact.Metrics.SampleCount),
		slog.Float64("threshold", artifact.Threshold),
	)
	return nil
}

// Load restores the most recently persisted artifact at startup. A missing
// or unreadable artifact degrades to the not-ready state instead of failing
// the process.
func (r *Registry) Load(ctx context.Context) error {
	artifact, err := r.repo.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			r.logger.Info("no persisted model artifact, starting untrained")
			return nil
		}
		r.logger.Warn("failed to load persisted model artifact, starting untrained",
			slog.Any("error", err))
		return nil
	}

	r.active.Store(artifact)
	r.logger.Info("model artifact restored",
		slog.String("version", artifact.Version.String()),
		slog.String("trained_at", artifact.TrainedAt.Format("2006-01-02T15:04:05Z")),
	)
	return nil
}

// Reset clears the active artifact. Used by tests and explicit teardown.
func (r *Registry) Reset() {
	r.active.Store(nil)
}
