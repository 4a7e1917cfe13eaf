package app

import (
	"context"
	"fmt"
	"time"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/internal/estimation"
	"genml/ports"
)

// Defaults mirroring the classical procedure.
const (
	DefaultGroupCount = 10
	DefaultMainShare  = 0.5
)

// EstimationService wraps the single-split pipeline with run identity,
// timing, the optional summary table, and optional persistence.
type EstimationService struct {
	model   ports.ProxyModel
	solver  ports.WLSSolver
	rng     ports.RNG
	results ports.ResultRepository // nil disables persistence
}

// EstimateRequest carries one estimation run's inputs. Zero values for
// SecondStage, Q and ProbM fall back to the classical defaults.
type EstimateRequest struct {
	Dataset     genml.Dataset
	SecondStage genml.SecondStage
	Q           int
	ProbM       float64
	WithSummary bool
}

// NewEstimationService creates the application service. The repository may
// be nil when persistence is not configured.
func NewEstimationService(model ports.ProxyModel, solver ports.WLSSolver, rng ports.RNG, results ports.ResultRepository) *EstimationService {
	return &EstimationService{
		model:   model,
		solver:  solver,
		rng:     rng,
		results: results,
	}
}

// Run executes one single-split estimation and returns the terminal result.
func (s *EstimationService) Run(ctx context.Context, req EstimateRequest) (*genml.EstimationResult, error) {
	if req.SecondStage == "" {
		req.SecondStage = genml.SecondStageBLP
	}
	if req.Q == 0 {
		req.Q = DefaultGroupCount
	}
	if req.ProbM == 0 {
		req.ProbM = DefaultMainShare
	}

	runID := core.NewRunID()
	start := time.Now()

	result, err := estimation.Combine(
		s.model, s.solver, req.Dataset,
		req.SecondStage, req.Q, req.ProbM,
		s.rng.Stream("estimation"),
	)
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	result.Seed = s.rng.Seed()
	result.RuntimeMs = time.Since(start).Milliseconds()
	result.CreatedAt = core.Now()
	if req.WithSummary {
		result.Summary = result.Fit().Summary()
	}

	if s.results != nil {
		if err := s.results.Save(ctx, result); err != nil {
			return nil, fmt.Errorf("estimation succeeded but persisting run %s failed: %w", runID, err)
		}
	}

	return result, nil
}
