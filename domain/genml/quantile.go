package genml

import (
	"sort"

	"genml/domain/core"

	"gonum.org/v1/gonum/stat"
)

// QuantileGrid cuts score into q left-closed bins of equal probability mass.
// The q bin edges are the score quantiles at probabilities 0, 1/q, ..,
// (q-1)/q (reported in percent); every observation maps to the highest bin
// whose edge does not exceed its score, and the top bin is unbounded above.
//
// QuantileGrid never jitters: callers feeding scores with exact ties must
// break them beforehand so the edges come out strictly increasing.
func QuantileGrid(score []float64, q int) (QuantileGroups, error) {
	if q <= 1 {
		return QuantileGroups{}, core.ErrInvalidGroupCount
	}
	if len(score) == 0 {
		return QuantileGroups{}, core.NewDegenerateInputError("quantile grid over empty score vector")
	}

	sorted := make([]float64, len(score))
	copy(sorted, score)
	sort.Float64s(sorted)

	probs := make([]float64, q)
	edges := make([]float64, q)
	for i := 0; i < q; i++ {
		probs[i] = 100 * float64(i) / float64(q)
		edges[i] = stat.Quantile(probs[i]/100, stat.LinInterp, sorted, nil)
	}

	indices := make([]int, len(score))
	for i, v := range score {
		// Highest bin whose left edge is <= v. The first edge is the sample
		// minimum, so in-sample scores never fall below bin 0.
		idx := sort.SearchFloat64s(edges, v)
		if idx == len(edges) || edges[idx] != v {
			idx--
		}
		if idx < 0 {
			idx = 0
		}
		indices[i] = idx
	}

	return QuantileGroups{Indices: indices, Edges: edges, Probs: probs}, nil
}
