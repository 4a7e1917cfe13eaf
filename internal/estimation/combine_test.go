package estimation

import (
	"math/rand"
	"testing"

	"genml/adapters/model"
	"genml/adapters/solver"
	"genml/domain/core"
	"genml/domain/genml"
	"genml/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCombineRejectsUnknownSecondStage verifies the dispatch boundary fails
// before any partitioning or fitting takes place.
func TestCombineRejectsUnknownSecondStage(t *testing.T) {
	rng := rand.New(rand.NewSource(40))
	ds := testkit.ConstantEffectScenario(50, 0.5, rng)

	probe := &recordingModel{}
	_, err := Combine(probe, solver.NewWLS(), ds, genml.SecondStage("median"), 10, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrUnknownSecondStage)
	assert.Empty(t, probe.fits, "no fitting may happen for an unknown second stage")
}

// TestCombineFullMainShareFails verifies prob_m=1 surfaces a degenerate
// input error instead of training proxies on an empty auxiliary sample.
func TestCombineFullMainShareFails(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	ds := testkit.ConstantEffectScenario(100, 0.5, rng)

	_, err := Combine(model.NewLinear(), solver.NewWLS(), ds, genml.SecondStageBLP, 10, 1.0, rng)
	assert.ErrorIs(t, err, core.ErrEmptyAuxiliary)
}

// TestCombineZeroMainShareFails verifies prob_m=0 leaves no rows to
// aggregate.
func TestCombineZeroMainShareFails(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ds := testkit.ConstantEffectScenario(100, 0.5, rng)

	_, err := Combine(model.NewLinear(), solver.NewWLS(), ds, genml.SecondStageBLP, 10, 0, rng)
	assert.ErrorIs(t, err, core.ErrEmptyMain)
}

// TestCombineBothStages checks each aggregator populates the matching half
// of the result and counts the split.
func TestCombineBothStages(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	ds := testkit.SignFlipScenario(600, rng)

	blp, err := Combine(model.NewLinear(), solver.NewWLS(), ds, genml.SecondStageBLP, 0, 0.5, rng)
	require.NoError(t, err)
	assert.NotNil(t, blp.BLP)
	assert.Nil(t, blp.GATES)
	assert.Equal(t, ds.Len(), blp.MainCount+blp.AuxCount)

	gates, err := Combine(model.NewLinear(), solver.NewWLS(), ds, genml.SecondStageGATES, 4, 0.5, rng)
	require.NoError(t, err)
	assert.NotNil(t, gates.GATES)
	assert.Nil(t, gates.BLP)
	assert.Equal(t, ds.Len(), gates.MainCount+gates.AuxCount)
}

// TestCombineValidatesDataset verifies shared dataset invariants surface.
func TestCombineValidatesDataset(t *testing.T) {
	rng := rand.New(rand.NewSource(44))

	bad := genml.Dataset{
		X: [][]float64{{1}, {2}},
		Y: []float64{1, 2, 3},
		D: []float64{0, 1, 0},
		P: []float64{0.5, 0.5, 0.5},
	}
	_, err := Combine(model.NewLinear(), solver.NewWLS(), bad, genml.SecondStageBLP, 10, 0.5, rng)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}
