package trainer

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phucht59/Face-detect/internal/domain"
)

const testDim = 16

func testTrainer() *Trainer {
	return New(Config{
		Components:            4,
		MinSamplesPerEmployee: 10,
		MinThreshold:          0.4,
	}, slog.Default())
}

// classSample builds a vector dominated by one axis per employee, with a
// small deterministic per-sample perturbation on the upper dimensions. The
// perturbation stays well below the class signal for any i.
func classSample(axis, i int) []float64 {
	v := make([]float64, testDim)
	v[axis] = 1.0
	v[8+(i%4)] = 0.02 * float64(i%8+1)
	return v
}

func classSet(counts map[int64]int) domain.TrainingSet {
	var set domain.TrainingSet
	for id := int64(1); id <= 8; id++ {
		n, ok := counts[id]
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			set.Samples = append(set.Samples, domain.FaceSample{
				EmployeeID: id,
				Vector:     classSample(int(id-1), i),
				CapturedAt: time.Now(),
			})
		}
	}
	return set
}

func TestTrainer_Train_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int64]int
	}{
		{"no samples at all", map[int64]int{}},
		{"single eligible class", map[int64]int{1: 12}},
		{"second class below minimum", map[int64]int{1: 12, 2: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := testTrainer().Train(classSet(tt.counts))
			assert.ErrorIs(t, err, domain.ErrInsufficientData)
			assert.Nil(t, artifact)
		})
	}
}

func TestTrainer_Train_ExcludesBelowMinimum(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 12, 3: 4})

	artifact, err := testTrainer().Train(set)
	require.NoError(t, err)

	assert.Equal(t, 2, artifact.Metrics.EmployeeCount)
	assert.Equal(t, 22, artifact.Metrics.SampleCount)
	require.Len(t, artifact.Metrics.Excluded, 1)
	assert.Equal(t, int64(3), artifact.Metrics.Excluded[0].EmployeeID)
	assert.Equal(t, 4, artifact.Metrics.Excluded[0].SampleCount)

	// Excluded employees must not leak into the classifier.
	_, hasCentroid := artifact.Centroids[3]
	assert.False(t, hasCentroid)
}

func TestTrainer_Train_ArtifactShape(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 10})

	artifact, err := testTrainer().Train(set)
	require.NoError(t, err)

	assert.Equal(t, testDim, artifact.Dimension)
	assert.Len(t, artifact.Mean, testDim)
	assert.Len(t, artifact.Basis, 4)
	for _, component := range artifact.Basis {
		assert.Len(t, component, testDim)
	}
	assert.Len(t, artifact.Centroids, 2)
	assert.GreaterOrEqual(t, artifact.Threshold, 0.4)
	assert.LessOrEqual(t, artifact.Threshold, 0.99)
	assert.NotEqual(t, artifact.Version.String(), "00000000-0000-0000-0000-000000000000")
}

func TestTrainer_Train_ComponentsClampedToRank(t *testing.T) {
	tr := New(Config{
		Components:            500,
		MinSamplesPerEmployee: 10,
		MinThreshold:          0.4,
	}, slog.Default())

	set := classSet(map[int64]int{1: 10, 2: 10})
	artifact, err := tr.Train(set)
	require.NoError(t, err)

	// 20 samples of dimension 16: at most 16 components exist.
	assert.Len(t, artifact.Basis, testDim)
}

func TestTrainer_Train_Deterministic(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 10, 4: 15})

	first, err := testTrainer().Train(set)
	require.NoError(t, err)

	second, err := testTrainer().Train(set)
	require.NoError(t, err)

	assert.Equal(t, first.Threshold, second.Threshold)
	assert.Equal(t, first.Mean, second.Mean)
	assert.Equal(t, first.Basis, second.Basis)
	assert.Equal(t, first.Centroids, second.Centroids)
}

func TestTrainer_Train_HeldOutRecognition(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 10})

	artifact, err := testTrainer().Train(set)
	require.NoError(t, err)

	// A held-out pose of employee 1 must classify back to employee 1 and
	// clear the calibrated threshold.
	heldOut := classSample(0, 99)
	projected, err := artifact.Project(heldOut)
	require.NoError(t, err)

	label, score := artifact.Classify(projected)
	assert.Equal(t, int64(1), label)
	assert.GreaterOrEqual(t, score, artifact.Threshold)

	// A vector sitting exactly on the population mean has no class signal at
	// all; its score must stay below the threshold.
	projected, err = artifact.Project(artifact.Mean)
	require.NoError(t, err)

	_, score = artifact.Classify(projected)
	assert.Less(t, score, artifact.Threshold)
}

func TestTrainer_Train_ThresholdNeverAboveGenuineScores(t *testing.T) {
	tr := New(Config{
		Components:            4,
		MinSamplesPerEmployee: 10,
		MinThreshold:          0.98,
	}, slog.Default())

	set := classSet(map[int64]int{1: 10, 2: 10})
	artifact, err := tr.Train(set)
	require.NoError(t, err)

	// The configured floor sits above the genuine-score regime; calibration
	// must back off below it instead of letting the floor win.
	assert.Less(t, artifact.Threshold, 0.98)

	// A held-out pose of an enrolled employee still clears the threshold.
	projected, err := artifact.Project(classSample(0, 42))
	require.NoError(t, err)

	label, score := artifact.Classify(projected)
	assert.Equal(t, int64(1), label)
	assert.GreaterOrEqual(t, score, artifact.Threshold)
}

func TestTrainer_Train_DimensionMismatch(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 10})
	set.Samples[5].Vector = []float64{1, 2, 3}

	artifact, err := testTrainer().Train(set)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Nil(t, artifact)
}

func TestArtifact_ProjectRejectsWrongDimension(t *testing.T) {
	set := classSet(map[int64]int{1: 10, 2: 10})

	artifact, err := testTrainer().Train(set)
	require.NoError(t, err)

	_, err = artifact.Project([]float64{1, 2})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}
