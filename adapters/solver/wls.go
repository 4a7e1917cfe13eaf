package solver

import (
	"fmt"
	"math"

	"genml/domain/core"
	"genml/domain/genml"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WLS solves weighted least squares by QR decomposition of the
// sqrt(weight)-scaled design. Standard errors come from sigma^2 (X'WX)^-1
// and p-values from a two-sided t test on the residual degrees of freedom;
// both degrade to NaN when the residual degrees of freedom run out.
type WLS struct{}

// NewWLS creates the default weighted-least-squares solver.
func NewWLS() *WLS {
	return &WLS{}
}

// Solve fits response ~ design under the given per-row weights and returns
// one labeled coefficient per design column.
func (s *WLS) Solve(design [][]float64, response []float64, weights []float64, labels []string) (*genml.WLSFit, error) {
	n := len(design)
	if n == 0 {
		return nil, core.NewDegenerateInputError("weighted least squares over empty design")
	}
	cols := len(design[0])
	if cols == 0 {
		return nil, core.NewDegenerateInputError("weighted least squares with no design columns")
	}
	if len(response) != n || len(weights) != n {
		return nil, core.ErrLengthMismatch
	}
	if len(labels) != cols {
		return nil, core.NewInvalidArgumentError("labels", fmt.Sprintf("need %d, got %d", cols, len(labels)))
	}
	if n < cols {
		return nil, fmt.Errorf("%w: %d observations for %d columns", core.ErrSingularSystem, n, cols)
	}

	// Scale rows by sqrt(w) so ordinary least squares on (A, b) solves the
	// weighted problem.
	a := mat.NewDense(n, cols, nil)
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if len(design[i]) != cols {
			return nil, core.ErrLengthMismatch
		}
		if weights[i] < 0 {
			return nil, core.NewDegenerateInputError(fmt.Sprintf("negative weight at row %d", i))
		}
		sw := math.Sqrt(weights[i])
		for j := 0; j < cols; j++ {
			a.Set(i, j, sw*design[i][j])
		}
		b.Set(i, 0, sw*response[i])
	}

	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularSystem, err)
	}

	// Weighted residual variance.
	var fitted mat.Dense
	fitted.Mul(a, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := b.At(i, 0) - fitted.At(i, 0)
		rss += r * r
	}
	dof := n - cols
	sigma2 := math.NaN()
	if dof > 0 {
		sigma2 = rss / float64(dof)
	}

	stderrs := s.standardErrors(a, sigma2, cols)

	coeffs := make([]genml.Coefficient, cols)
	for j := 0; j < cols; j++ {
		est := beta.At(j, 0)
		se := stderrs[j]
		tval := est / se
		pval := math.NaN()
		if dof > 0 && !math.IsNaN(tval) {
			tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
			pval = 2 * tDist.Survival(math.Abs(tval))
		}
		coeffs[j] = genml.Coefficient{
			Label:    labels[j],
			Estimate: est,
			StdErr:   se,
			TValue:   tval,
			PValue:   pval,
		}
	}

	return &genml.WLSFit{
		Coefficients: coeffs,
		NObs:         n,
		DOF:          dof,
		Sigma2:       sigma2,
	}, nil
}

// standardErrors computes sqrt(sigma2 * diag((A'A)^-1)) on the scaled
// design, falling back to NaN when the normal matrix cannot be inverted.
func (s *WLS) standardErrors(a *mat.Dense, sigma2 float64, cols int) []float64 {
	stderrs := make([]float64, cols)
	for j := range stderrs {
		stderrs[j] = math.NaN()
	}
	if math.IsNaN(sigma2) {
		return stderrs
	}

	var xtx mat.Dense
	xtx.Mul(a.T(), a)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return stderrs
	}
	for j := 0; j < cols; j++ {
		v := sigma2 * inv.At(j, j)
		if v >= 0 {
			stderrs[j] = math.Sqrt(v)
		}
	}
	return stderrs
}
