package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// FaceSample is one enrollment observation. Immutable once stored.
type FaceSample struct {
	EmployeeID int64     `json:"employee_id"`
	Vector     []float64 `json:"vector"`
	CapturedAt time.Time `json:"captured_at"`
}

// TrainingSet is a point-in-time snapshot of enrolled samples. The trainer
// never sees samples added after the snapshot was taken.
type TrainingSet struct {
	Samples []FaceSample `json:"samples"`
	TakenAt time.Time    `json:"taken_at"`
}

// CountByEmployee groups the snapshot by label.
func (ts TrainingSet) CountByEmployee() map[int64]int {
	counts := make(map[int64]int)
	for _, s := range ts.Samples {
		counts[s.EmployeeID]++
	}
	return counts
}

// ExcludedEmployee reports an employee left out of a training run for having
// fewer than the minimum number of samples.
type ExcludedEmployee struct {
	EmployeeID  int64 `json:"employee_id"`
	SampleCount int   `json:"sample_count"`
}

// TrainingMetrics summarizes one training run. Returned to the retrain caller
// and carried inside the artifact.
type TrainingMetrics struct {
	Version         uuid.UUID          `json:"version"`
	EmployeeCount   int                `json:"employee_count"`
	SampleCount     int                `json:"sample_count"`
	SamplesPerClass map[int64]int      `json:"samples_per_class"`
	Excluded        []ExcludedEmployee `json:"excluded,omitempty"`
	Components      int                `json:"components"`
	Threshold       float64            `json:"threshold"`
	TrainedAt       time.Time          `json:"trained_at"`
}

// ModelArtifact is the immutable bundle produced by one training run: the
// reduction basis, the classifier state and the calibrated decision
// threshold. Artifacts are superseded by new versions, never edited.
type ModelArtifact struct {
	Version   uuid.UUID `json:"version"`
	Dimension int       `json:"dimension"`

	// Reduction basis: each row is one retained component of length Dimension.
	Mean  []float64   `json:"mean"`
	Basis [][]float64 `json:"basis"`

	// Classifier state: per-employee centroid in the reduced space.
	Centroids map[int64][]float64 `json:"centroids"`

	Threshold float64         `json:"threshold"`
	Metrics   TrainingMetrics `json:"metrics"`
	TrainedAt time.Time       `json:"trained_at"`
}

// Project applies the reduction basis to a raw feature vector.
func (a *ModelArtifact) Project(vector []float64) ([]float64, error) {
	if len(vector) != a.Dimension {
		return nil, ErrDimensionMismatch
	}

	projected := make([]float64, len(a.Basis))
	for i, component := range a.Basis {
		var sum float64
		for j, v := range vector {
			sum += component[j] * (v - a.Mean[j])
		}
		projected[i] = sum
	}
	return projected, nil
}

// Classify returns the nearest centroid label and its cosine similarity for
// an already projected vector.
func (a *ModelArtifact) Classify(projected []float64) (employeeID int64, score float64) {
	best := math.Inf(-1)
	for id, centroid := range a.Centroids {
		s := CosineSimilarity(projected, centroid)
		if s > best {
			best = s
			employeeID = id
		}
	}
	return employeeID, best
}

// RecognitionResult is the outcome of one recognition call. Unknown is a
// legitimate, scored outcome, not an error.
type RecognitionResult struct {
	EmployeeID   *int64    `json:"employee_id,omitempty"`
	Known        bool      `json:"known"`
	Score        float64   `json:"score"`
	Threshold    float64   `json:"threshold"`
	ModelVersion uuid.UUID `json:"model_version"`
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// clamped to [-1, 1]. Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	s := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return s
}
