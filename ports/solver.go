package ports

import (
	"genml/domain/genml"
)

// WLSSolver is the weighted-least-squares capability the aggregators call.
// Implementations return one labeled coefficient per design column; standard
// errors, t statistics and p-values are optional pass-through (NaN when the
// solver cannot compute them). A singular or rank-deficient system must
// surface an error wrapping core.ErrSingularSystem.
type WLSSolver interface {
	Solve(design [][]float64, response []float64, weights []float64, labels []string) (*genml.WLSFit, error)
}
