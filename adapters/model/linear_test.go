package model

import (
	"math/rand"
	"testing"

	"genml/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinearFitsExactData expects exact recovery on noise-free data.
func TestLinearFitsExactData(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 100

	features := make([][]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		x1, x2 := rng.NormFloat64(), rng.NormFloat64()
		features[i] = []float64{x1, x2}
		target[i] = 2 + 3*x1 - x2
	}

	m := NewLinear()
	require.NoError(t, m.Fit(features, target))
	assert.InDelta(t, 2, m.Intercept(), 1e-8)
	assert.InDelta(t, 3, m.Coef()[0], 1e-8)
	assert.InDelta(t, -1, m.Coef()[1], 1e-8)

	preds, err := m.Predict(features)
	require.NoError(t, err)
	for i := range preds {
		assert.InDelta(t, target[i], preds[i], 1e-8)
	}
}

// TestLinearRefitOverwrites verifies a second Fit fully replaces the state
// learned by the first - the proxy pipeline depends on this.
func TestLinearRefitOverwrites(t *testing.T) {
	first := [][]float64{{0}, {1}, {2}, {3}}
	firstTarget := []float64{0, 10, 20, 30}

	second := [][]float64{{0}, {1}, {2}, {3}}
	secondTarget := []float64{5, 4, 3, 2}

	m := NewLinear()
	require.NoError(t, m.Fit(first, firstTarget))
	require.NoError(t, m.Fit(second, secondTarget))

	preds, err := m.Predict([][]float64{{0}, {3}})
	require.NoError(t, err)
	assert.InDelta(t, 5, preds[0], 1e-8)
	assert.InDelta(t, 2, preds[1], 1e-8)
}

// TestLinearPredictBeforeFit verifies the untrained model refuses.
func TestLinearPredictBeforeFit(t *testing.T) {
	_, err := NewLinear().Predict([][]float64{{1}})
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
}

// TestLinearRejectsEmptyTrainingSet covers the degenerate fit boundary.
func TestLinearRejectsEmptyTrainingSet(t *testing.T) {
	err := NewLinear().Fit(nil, nil)
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
}
