package model

import (
	"fmt"

	"genml/domain/core"

	"gonum.org/v1/gonum/mat"
)

// Linear is an ordinary least squares proxy model: intercept plus one
// coefficient per feature, solved by QR. Every Fit rebuilds the parameters
// from scratch, so a shared instance can be re-fit on disjoint subsets
// without leaking state between fits.
type Linear struct {
	intercept float64
	coef      []float64
	fitted    bool
}

// NewLinear creates an untrained linear regression model.
func NewLinear() *Linear {
	return &Linear{}
}

// Fit estimates intercept and coefficients from the given rows, discarding
// any previously learned parameters.
func (m *Linear) Fit(features [][]float64, target []float64) error {
	m.intercept, m.coef, m.fitted = 0, nil, false

	n := len(features)
	if n == 0 || len(target) != n {
		return core.NewDegenerateInputError("linear fit needs a non-empty, aligned training set")
	}
	k := len(features[0])

	a := mat.NewDense(n, k+1, nil)
	b := mat.NewDense(n, 1, nil)
	for i, row := range features {
		if len(row) != k {
			return core.ErrLengthMismatch
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
		b.Set(i, 0, target[i])
	}

	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSingularSystem, err)
	}

	m.intercept = beta.At(0, 0)
	m.coef = make([]float64, k)
	for j := 0; j < k; j++ {
		m.coef[j] = beta.At(j+1, 0)
	}
	m.fitted = true
	return nil
}

// Predict returns one prediction per feature row using the current
// parameters.
func (m *Linear) Predict(features [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, core.NewDegenerateInputError("predict called before fit")
	}
	out := make([]float64, len(features))
	for i, row := range features {
		if len(row) != len(m.coef) {
			return nil, core.ErrLengthMismatch
		}
		sum := m.intercept
		for j, v := range row {
			sum += m.coef[j] * v
		}
		out[i] = sum
	}
	return out, nil
}

// Coef returns the fitted feature coefficients (without the intercept).
func (m *Linear) Coef() []float64 {
	return m.coef
}

// Intercept returns the fitted intercept.
func (m *Linear) Intercept() float64 {
	return m.intercept
}
