package estimation

import (
	"math"
	"math/rand"
	"testing"

	"genml/domain/core"
	"genml/domain/genml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bernoulliTreatment(n int, p float64, rng *rand.Rand) []float64 {
	d := make([]float64, n)
	for i := range d {
		if rng.Float64() < p {
			d[i] = 1
		}
	}
	return d
}

// TestPartitionStratifiedCounts checks the per-arm floor counts and that
// main/auxiliary form a complete disjoint cover.
func TestPartitionStratifiedCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, probM := range []float64{0, 0.25, 0.5, 0.8, 1} {
		d := bernoulliTreatment(400, 0.4, rng)
		labels, err := Partition(d, probM, rng)
		require.NoError(t, err, "probM=%v", probM)
		require.Len(t, labels, len(d))

		var nTreat, nCtrl, mainTreat, mainCtrl int
		for i, label := range labels {
			require.Contains(t, []genml.Sample{genml.SampleMain, genml.SampleAuxiliary}, label)
			if d[i] == 1 {
				nTreat++
				if label == genml.SampleMain {
					mainTreat++
				}
			} else {
				nCtrl++
				if label == genml.SampleMain {
					mainCtrl++
				}
			}
		}

		assert.Equal(t, int(math.Floor(probM*float64(nTreat))), mainTreat, "probM=%v treated", probM)
		assert.Equal(t, int(math.Floor(probM*float64(nCtrl))), mainCtrl, "probM=%v control", probM)
	}
}

// TestPartitionDeterministic verifies identical seeds reproduce the split.
func TestPartitionDeterministic(t *testing.T) {
	d := bernoulliTreatment(200, 0.5, rand.New(rand.NewSource(3)))

	first, err := Partition(d, 0.5, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	second, err := Partition(d, 0.5, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := Partition(d, 0.5, rand.New(rand.NewSource(100)))
	require.NoError(t, err)
	assert.NotEqual(t, first, third, "different seeds should move the split")
}

// TestPartitionRejectsInvalidInput covers the failure taxonomy.
func TestPartitionRejectsInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Partition(nil, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrDegenerateInput)

	_, err = Partition([]float64{0, 1, 0}, -0.1, rng)
	assert.ErrorIs(t, err, core.ErrInvalidMainShare)

	_, err = Partition([]float64{0, 1, 0}, 1.1, rng)
	assert.ErrorIs(t, err, core.ErrInvalidMainShare)

	_, err = Partition([]float64{1, 1, 1}, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrEmptyArm, "all-treated input has no control arm")

	_, err = Partition([]float64{0, 0}, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrEmptyArm, "all-control input has no treated arm")

	_, err = Partition([]float64{0, 1, 2}, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrNonBinaryTreatment)
}
