package genml

import (
	"fmt"
	"math"

	"genml/domain/core"
)

// Sample identifies the role an observation plays in a single split.
type Sample string

const (
	// SampleMain marks observations reserved for honest aggregation.
	SampleMain Sample = "m"
	// SampleAuxiliary marks observations used to train the proxy model.
	SampleAuxiliary Sample = "a"
)

// SecondStage selects the aggregation applied to the main sample.
type SecondStage string

const (
	SecondStageBLP   SecondStage = "blp"
	SecondStageGATES SecondStage = "gates"
)

// IsValid reports whether the second stage names a known aggregator.
func (s SecondStage) IsValid() bool {
	return s == SecondStageBLP || s == SecondStageGATES
}

// Dataset is the read-only input to an estimation run: a feature matrix,
// outcomes, a binary treatment indicator, and known treatment propensities.
// All four share the same row count.
type Dataset struct {
	X [][]float64 `json:"x"` // n x k feature matrix
	Y []float64   `json:"y"` // outcomes
	D []float64   `json:"d"` // treatment indicator, values in {0, 1}
	P []float64   `json:"p"` // treatment propensity, values in (0, 1)
}

// Len returns the number of observations.
func (ds Dataset) Len() int {
	return len(ds.Y)
}

// Validate checks the structural invariants shared by every pipeline stage:
// aligned lengths, binary treatment, and at least one observation.
func (ds Dataset) Validate() error {
	n := ds.Len()
	if n == 0 {
		return core.ErrEmptyDataset
	}
	if len(ds.X) != n || len(ds.D) != n || len(ds.P) != n {
		return fmt.Errorf("%w: X=%d Y=%d D=%d P=%d",
			core.ErrLengthMismatch, len(ds.X), n, len(ds.D), len(ds.P))
	}
	width := len(ds.X[0])
	for i, row := range ds.X {
		if len(row) != width {
			return fmt.Errorf("%w: feature row %d has %d columns, want %d",
				core.ErrLengthMismatch, i, len(row), width)
		}
	}
	for i, d := range ds.D {
		if d != 0 && d != 1 {
			return fmt.Errorf("%w: row %d has d=%v", core.ErrNonBinaryTreatment, i, d)
		}
	}
	return nil
}

// ProxyPrediction holds per-observation proxy predictions for the full
// dataset: the baseline effect b_hat and the treatment-effect proxy s_hat.
// Proxies cover every row even though they are trained on auxiliary rows only.
type ProxyPrediction struct {
	BHat []float64 `json:"b_hat"`
	SHat []float64 `json:"s_hat"`
}

// QuantileGroups is the output of QuantileGrid: a bin index per observation,
// the q ascending left-closed bin edges, and the q lower quantile
// probabilities (in percent).
type QuantileGroups struct {
	Indices []int     `json:"indices"`
	Edges   []float64 `json:"edges"`
	Probs   []float64 `json:"probs"`
}

// Coefficient is a single labeled row of a weighted-least-squares fit.
type Coefficient struct {
	Label    string  `json:"label"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	TValue   float64 `json:"t_value"`
	PValue   float64 `json:"p_value"`
}

// WLSFit is the structured output of the weighted-least-squares solver.
// The coefficient vector is the only part the aggregators require; standard
// errors and p-values are pass-through from the solver when it can compute
// them (NaN otherwise).
type WLSFit struct {
	Coefficients []Coefficient `json:"coefficients"`
	NObs         int           `json:"n_obs"`
	DOF          int           `json:"dof"`
	Sigma2       float64       `json:"sigma2"` // weighted residual variance
}

// Estimates returns the raw coefficient vector in column order.
func (f *WLSFit) Estimates() []float64 {
	out := make([]float64, len(f.Coefficients))
	for i, c := range f.Coefficients {
		out[i] = c.Estimate
	}
	return out
}

// BLPResult holds the Best Linear Predictor estimates: the average treatment
// effect and the heterogeneity loading on the proxy score.
type BLPResult struct {
	ATE float64 `json:"ate"`
	HET float64 `json:"het"`
	Fit *WLSFit `json:"fit"`
}

// GATESResult holds per-group average treatment effects over q quantile bins
// of the proxy score, alongside the bin geometry and occupancy.
type GATESResult struct {
	CoefBaseline  []float64 `json:"coef_baseline"`
	CoefTreatment []float64 `json:"coef_treatment"`
	BinEdges      []float64 `json:"bin_edges"`
	BinProbs      []float64 `json:"bin_probs"`
	BinCounts     []int     `json:"bin_counts"`
	Fit           *WLSFit   `json:"fit"`
}

// EstimationResult is the terminal output of a single-split estimation run.
// Exactly one of BLP or GATES is set, matching SecondStage.
type EstimationResult struct {
	RunID       core.RunID     `json:"run_id"`
	SecondStage SecondStage    `json:"second_stage"`
	BLP         *BLPResult     `json:"blp,omitempty"`
	GATES       *GATESResult   `json:"gates,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	MainCount   int            `json:"main_count"`
	AuxCount    int            `json:"aux_count"`
	Seed        int64          `json:"seed"`
	RuntimeMs   int64          `json:"runtime_ms"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// Fit returns the underlying solver fit for whichever aggregator ran.
func (r *EstimationResult) Fit() *WLSFit {
	switch {
	case r.BLP != nil:
		return r.BLP.Fit
	case r.GATES != nil:
		return r.GATES.Fit
	default:
		return nil
	}
}

// HasStdErrors reports whether the solver produced usable standard errors.
func (f *WLSFit) HasStdErrors() bool {
	for _, c := range f.Coefficients {
		if !math.IsNaN(c.StdErr) {
			return true
		}
	}
	return false
}
