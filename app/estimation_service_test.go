package app

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"genml/adapters/model"
	"genml/adapters/rng"
	"genml/adapters/solver"
	"genml/domain/core"
	"genml/domain/genml"
	"genml/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository is an in-memory stand-in for the Postgres adapter.
type memoryRepository struct {
	saved []*genml.EstimationResult
}

func (r *memoryRepository) Save(_ context.Context, result *genml.EstimationResult) error {
	r.saved = append(r.saved, result)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id core.RunID) (*genml.EstimationResult, error) {
	for _, result := range r.saved {
		if result.RunID == id {
			return result, nil
		}
	}
	return nil, core.ErrResultNotFound
}

func (r *memoryRepository) ListRecent(_ context.Context, limit int) ([]*genml.EstimationResult, error) {
	if limit > len(r.saved) {
		limit = len(r.saved)
	}
	return r.saved[:limit], nil
}

func newService(repo *memoryRepository) *EstimationService {
	// Avoid wrapping a typed nil in the repository interface.
	if repo == nil {
		return NewEstimationService(model.NewLinear(), solver.NewWLS(), rng.NewSeeded(7), nil)
	}
	return NewEstimationService(model.NewLinear(), solver.NewWLS(), rng.NewSeeded(7), repo)
}

// TestRunDefaultsAndMetadata verifies zero-valued options fall back to the
// classical defaults and run metadata is stamped.
func TestRunDefaultsAndMetadata(t *testing.T) {
	ds := testkit.ConstantEffectScenario(300, 0.5, rand.New(rand.NewSource(50)))
	service := newService(nil)

	result, err := service.Run(context.Background(), EstimateRequest{Dataset: ds})
	require.NoError(t, err)

	assert.Equal(t, genml.SecondStageBLP, result.SecondStage, "default second stage is blp")
	assert.NotNil(t, result.BLP)
	assert.False(t, result.RunID.String() == "")
	assert.Equal(t, int64(7), result.Seed)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Empty(t, result.Summary, "summary is opt-in")
	// prob_m=0.5 over 300 rows splits roughly in half per arm.
	assert.InDelta(t, 150, result.MainCount, 2)
}

// TestRunWithSummary verifies the summary toggle attaches the solver table.
func TestRunWithSummary(t *testing.T) {
	ds := testkit.ConstantEffectScenario(300, 0.5, rand.New(rand.NewSource(51)))
	service := newService(nil)

	result, err := service.Run(context.Background(), EstimateRequest{Dataset: ds, WithSummary: true})
	require.NoError(t, err)
	assert.True(t, strings.Contains(result.Summary, "ate"), "summary should list labeled rows")
	assert.True(t, strings.Contains(result.Summary, "Weighted Least Squares"))
}

// TestRunPersistsResult verifies the repository receives the terminal result.
func TestRunPersistsResult(t *testing.T) {
	ds := testkit.ConstantEffectScenario(300, 0.5, rand.New(rand.NewSource(52)))
	repo := &memoryRepository{}
	service := newService(repo)

	result, err := service.Run(context.Background(), EstimateRequest{Dataset: ds, SecondStage: genml.SecondStageGATES, Q: 4})
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, result.RunID, repo.saved[0].RunID)
	assert.NotNil(t, repo.saved[0].GATES)
}

// TestRunReproducibleUnderFixedSeed verifies two service instances with the
// same base seed produce identical estimates.
func TestRunReproducibleUnderFixedSeed(t *testing.T) {
	ds := testkit.LinearEffectScenario(400, rand.New(rand.NewSource(53)))

	first, err := newService(nil).Run(context.Background(), EstimateRequest{Dataset: ds})
	require.NoError(t, err)
	second, err := newService(nil).Run(context.Background(), EstimateRequest{Dataset: ds})
	require.NoError(t, err)

	assert.Equal(t, first.BLP.ATE, second.BLP.ATE)
	assert.Equal(t, first.BLP.HET, second.BLP.HET)
}

// TestRunSurfacesPipelineErrors verifies errors pass through untouched.
func TestRunSurfacesPipelineErrors(t *testing.T) {
	ds := testkit.ConstantEffectScenario(100, 0.5, rand.New(rand.NewSource(54)))

	_, err := newService(nil).Run(context.Background(), EstimateRequest{
		Dataset:     ds,
		SecondStage: genml.SecondStage("bootstrap"),
	})
	assert.ErrorIs(t, err, core.ErrUnknownSecondStage)

	_, err = newService(nil).Run(context.Background(), EstimateRequest{Dataset: ds, ProbM: 1})
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
}
