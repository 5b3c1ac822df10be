// Package trainer fits a model over an enrollment snapshot: a principal
// component basis, a nearest-centroid classifier in the reduced space and a
// calibrated decision threshold. Training two times on the same snapshot with
// the same configuration produces the same basis, centroids and threshold.
package trainer

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Phucht59/Face-detect/internal/domain"
)

// Config tunes one training run.
type Config struct {
	// Components is the number of principal components to retain. Clamped to
	// the rank the snapshot supports.
	Components int

	// MinSamplesPerEmployee is the eligibility bar: employees below it are
	// excluded from the run and reported in metrics, never a failure.
	MinSamplesPerEmployee int

	// MinThreshold is the floor for the calibrated decision threshold.
	MinThreshold float64
}

// maxThreshold keeps calibration from producing a threshold no genuine
// sample could ever clear.
const maxThreshold = 0.99

// genuineMargin is how far below the weakest genuine training score the
// threshold must stay, leaving room for held-out poses of enrolled faces.
const genuineMargin = 0.05

type Trainer struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Trainer {
	return &Trainer{cfg: cfg, logger: logger}
}

// Train produces an immutable artifact from the snapshot, or
// domain.ErrInsufficientData when fewer than two employees are eligible.
func (t *Trainer) Train(set domain.TrainingSet) (*domain.ModelArtifact, error) {
	eligible, excluded := t.partition(set)

	if len(eligible) < 2 {
		return nil, domain.ErrInsufficientData.WithError(
			fmt.Errorf("%d eligible employees, need at least 2", len(eligible)))
	}

	samples := make([]domain.FaceSample, 0, len(set.Samples))
	for _, s := range set.Samples {
		if _, ok := eligible[s.EmployeeID]; ok {
			samples = append(samples, s)
		}
	}

	dim := len(samples[0].Vector)
	for _, s := range samples {
		if len(s.Vector) != dim {
			return nil, domain.ErrDimensionMismatch.WithError(
				fmt.Errorf("employee %d has a %d-dim sample, expected %d", s.EmployeeID, len(s.Vector), dim))
		}
	}

	mean, basis, err := t.fitBasis(samples, dim)
	if err != nil {
		return nil, err
	}

	projected := make([][]float64, len(samples))
	for i, s := range samples {
		projected[i] = project(s.Vector, mean, basis)
	}

	centroids := fitCentroids(samples, projected, len(basis))
	threshold := t.calibrate(samples, projected, centroids)

	version := uuid.New()
	trainedAt := time.Now().UTC()

	metrics := domain.TrainingMetrics{
		Version:         version,
		EmployeeCount:   len(eligible),
		SampleCount:     len(samples),
		SamplesPerClass: eligible,
		Excluded:        excluded,
		Components:      len(basis),
		Threshold:       threshold,
		TrainedAt:       trainedAt,
	}

	t.logger.Info("training run complete",
		slog.String("version", version.String()),
		slog.Int("employees", metrics.EmployeeCount),
		slog.Int("samples", metrics.SampleCount),
		slog.Int("components", metrics.Components),
		slog.Float64("threshold", threshold),
		slog.Int("excluded", len(excluded)),
	)

	return &domain.ModelArtifact{
		Version:   version,
		Dimension: dim,
		Mean:      mean,
		Basis:     basis,
		Centroids: centroids,
		Threshold: threshold,
		Metrics:   metrics,
		TrainedAt: trainedAt,
	}, nil
}

// partition splits the snapshot's labels into eligible (with per-class
// counts) and excluded, sorted by employee ID for reproducible metrics.
func (t *Trainer) partition(set domain.TrainingSet) (map[int64]int, []domain.ExcludedEmployee) {
	counts := set.CountByEmployee()

	eligible := make(map[int64]int)
	var excluded []domain.ExcludedEmployee
	for id, count := range counts {
		if count >= t.cfg.MinSamplesPerEmployee {
			eligible[id] = count
		} else {
			excluded = append(excluded, domain.ExcludedEmployee{EmployeeID: id, SampleCount: count})
		}
	}

	sort.Slice(excluded, func(i, j int) bool { return excluded[i].EmployeeID < excluded[j].EmployeeID })
	return eligible, excluded
}

// fitBasis computes the mean vector and the principal-component basis over
// the eligible samples via thin SVD of the centered data matrix.
func (t *Trainer) fitBasis(samples []domain.FaceSample, dim int) ([]float64, [][]float64, error) {
	n := len(samples)

	mean := make([]float64, dim)
	for _, s := range samples {
		floats.Add(mean, s.Vector)
	}
	floats.Scale(1/float64(n), mean)

	centered := mat.NewDense(n, dim, nil)
	for i, s := range samples {
		for j := 0; j < dim; j++ {
			centered.Set(i, j, s.Vector[j]-mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, nil, domain.ErrInternal.WithError(fmt.Errorf("svd factorization failed for %dx%d matrix", n, dim))
	}

	var v mat.Dense
	svd.VTo(&v)

	components := t.cfg.Components
	if rank := min(n, dim); components > rank {
		components = rank
	}

	basis := make([][]float64, components)
	for c := 0; c < components; c++ {
		row := make([]float64, dim)
		for j := 0; j < dim; j++ {
			row[j] = v.At(j, c)
		}
		basis[c] = row
	}

	return mean, basis, nil
}

// project applies the basis to one raw vector.
func project(vector, mean []float64, basis [][]float64) []float64 {
	centered := make([]float64, len(vector))
	floats.SubTo(centered, vector, mean)

	out := make([]float64, len(basis))
	for i, component := range basis {
		out[i] = floats.Dot(component, centered)
	}
	return out
}

// fitCentroids averages the projected samples per label.
func fitCentroids(samples []domain.FaceSample, projected [][]float64, components int) map[int64][]float64 {
	sums := make(map[int64][]float64)
	counts := make(map[int64]int)

	for i, s := range samples {
		sum, ok := sums[s.EmployeeID]
		if !ok {
			sum = make([]float64, components)
			sums[s.EmployeeID] = sum
		}
		floats.Add(sum, projected[i])
		counts[s.EmployeeID]++
	}

	for id, sum := range sums {
		floats.Scale(1/float64(counts[id]), sum)
	}
	return sums
}

// calibrate picks the decision threshold from the projected training
// samples: the midpoint between the mean genuine score (each sample against
// its own centroid) and the mean best impostor score (each sample against
// the closest foreign centroid), clamped to [MinThreshold, maxThreshold].
// The result is then capped by the weakest genuine score, so neither the
// midpoint nor the floor can push the threshold past what enrolled faces
// actually score. Raising the result can only make acceptance stricter.
func (t *Trainer) calibrate(samples []domain.FaceSample, projected [][]float64, centroids map[int64][]float64) float64 {
	var genuineSum, impostorSum float64
	minGenuine := 1.0

	for i, s := range samples {
		genuine := domain.CosineSimilarity(projected[i], centroids[s.EmployeeID])
		genuineSum += genuine
		if genuine < minGenuine {
			minGenuine = genuine
		}

		best := -1.0
		for id, centroid := range centroids {
			if id == s.EmployeeID {
				continue
			}
			if score := domain.CosineSimilarity(projected[i], centroid); score > best {
				best = score
			}
		}
		impostorSum += best
	}

	n := float64(len(samples))
	threshold := (genuineSum/n + impostorSum/n) / 2

	if threshold < t.cfg.MinThreshold {
		threshold = t.cfg.MinThreshold
	}
	if threshold > maxThreshold {
		threshold = maxThreshold
	}
	if ceiling := minGenuine - genuineMargin; threshold > ceiling {
		threshold = ceiling
	}
	return threshold
}
