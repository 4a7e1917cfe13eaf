package estimation

import (
	"fmt"
	"math/rand"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/ports"
)

// jitterScale is the magnitude of the uniform tie-breaking jitter added to
// the proxy score before grouping. Proxy models frequently emit identical
// predictions for many rows, which would collapse quantile edges.
const jitterScale = 1e-16

// GATES estimates per-group average treatment effects over q quantile bins
// of the proxy score, on main-sample rows. The design concatenates a one-hot
// group indicator block with the same block scaled by D-P, so the first q
// coefficients are per-group baselines and the last q are per-group
// treatment effects. Weighting matches BLP.
func GATES(solver ports.WLSSolver, y, d, p, sHat []float64, q int, rng *rand.Rand) (*genml.GATESResult, error) {
	n := len(y)
	if n == 0 {
		return nil, core.ErrEmptyMain
	}
	if len(d) != n || len(p) != n || len(sHat) != n {
		return nil, core.ErrLengthMismatch
	}

	weights, err := propensityWeights(p)
	if err != nil {
		return nil, err
	}

	jittered := make([]float64, n)
	for i, v := range sHat {
		jittered[i] = v + jitterScale*rng.Float64()
	}
	groups, err := genml.QuantileGrid(jittered, q)
	if err != nil {
		return nil, err
	}

	design := make([][]float64, n)
	counts := make([]int, q)
	for i := 0; i < n; i++ {
		row := make([]float64, 2*q)
		g := groups.Indices[i]
		row[g] = 1
		row[q+g] = d[i] - p[i]
		design[i] = row
		counts[g]++
	}

	labels := make([]string, 2*q)
	for g := 0; g < q; g++ {
		labels[g] = fmt.Sprintf("Baseline: p=%.2f (%.2f)", groups.Probs[g]/100, groups.Edges[g])
		labels[q+g] = fmt.Sprintf("Treatment: p=%.2f (%.2f)", groups.Probs[g]/100, groups.Edges[g])
	}

	fit, err := solver.Solve(design, y, weights, labels)
	if err != nil {
		return nil, err
	}

	estimates := fit.Estimates()
	return &genml.GATESResult{
		CoefBaseline:  estimates[:q],
		CoefTreatment: estimates[q:],
		BinEdges:      groups.Edges,
		BinProbs:      groups.Probs,
		BinCounts:     counts,
		Fit:           fit,
	}, nil
}
