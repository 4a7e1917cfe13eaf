package estimation

import (
	"fmt"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/ports"

	"github.com/montanaflynn/stats"
)

// blpLabels name the four design columns of the Best Linear Predictor
// regression, in column order.
var blpLabels = []string{"const.", "b0", "ate", "het"}

// BLP estimates the average treatment effect and the heterogeneity loading
// via weighted least squares on main-sample rows. The design is
// [1, b_hat, D-P, (D-P)*(s_hat - mean(s_hat))] with inverse propensity
// variance weights 1/(P*(1-P)).
func BLP(solver ports.WLSSolver, y, d, p, bHat, sHat []float64) (*genml.BLPResult, error) {
	n := len(y)
	if n == 0 {
		return nil, core.ErrEmptyMain
	}
	if len(d) != n || len(p) != n || len(bHat) != n || len(sHat) != n {
		return nil, core.ErrLengthMismatch
	}

	weights, err := propensityWeights(p)
	if err != nil {
		return nil, err
	}
	sMean, err := stats.Mean(sHat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDegenerateInput, err)
	}

	design := make([][]float64, n)
	for i := 0; i < n; i++ {
		dp := d[i] - p[i]
		design[i] = []float64{1, bHat[i], dp, dp * (sHat[i] - sMean)}
	}

	fit, err := solver.Solve(design, y, weights, blpLabels)
	if err != nil {
		return nil, err
	}

	return &genml.BLPResult{
		ATE: fit.Coefficients[2].Estimate,
		HET: fit.Coefficients[3].Estimate,
		Fit: fit,
	}, nil
}

// propensityWeights builds the 1/(p*(1-p)) regression weights, rejecting
// propensities at 0 or 1 before they turn into infinite weights.
func propensityWeights(p []float64) ([]float64, error) {
	weights := make([]float64, len(p))
	for i, v := range p {
		if v <= 0 || v >= 1 {
			return nil, fmt.Errorf("%w: row %d has p=%v", core.ErrExtremePropensity, i, v)
		}
		weights[i] = 1 / (v * (1 - v))
	}
	return weights, nil
}
