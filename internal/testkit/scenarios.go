package testkit

import (
	"math/rand"

	"genml/domain/genml"
)

// Synthetic experiments with known ground truth, used by package tests, the
// CLI demo mode and the server's demo endpoint. All scenarios randomize
// treatment with constant propensity 0.5, the textbook randomized
// experiment, so the inverse-variance weights are constant too.

const demoPropensity = 0.5

// LinearEffectScenario generates Y = D*X1 + noise: the treatment effect is
// X1 itself, so the true ATE equals the sample mean of X1.
func LinearEffectScenario(n int, rng *rand.Rand) genml.Dataset {
	ds := baseDataset(n, rng)
	for i := 0; i < n; i++ {
		ds.Y[i] = ds.D[i]*ds.X[i][0] + 0.25*rng.NormFloat64()
	}
	return ds
}

// ConstantEffectScenario generates Y = tau*D + noise with no effect
// heterogeneity at all, so the heterogeneity loading should vanish.
func ConstantEffectScenario(n int, tau float64, rng *rand.Rand) genml.Dataset {
	ds := baseDataset(n, rng)
	for i := 0; i < n; i++ {
		ds.Y[i] = tau*ds.D[i] + 0.25*rng.NormFloat64()
	}
	return ds
}

// SignFlipScenario generates Y = D*X1*sign(X2) + noise. The third feature
// column carries the interaction X1*sign(X2) so a linear proxy can recover
// the heterogeneous effect, making group effects ordered in the proxy score.
func SignFlipScenario(n int, rng *rand.Rand) genml.Dataset {
	ds := baseDataset(n, rng)
	for i := 0; i < n; i++ {
		effect := ds.X[i][0] * sign(ds.X[i][1])
		ds.X[i][2] = effect
		ds.Y[i] = ds.D[i]*effect + 0.25*rng.NormFloat64()
	}
	return ds
}

// TrueEffects returns the per-row treatment effect implied by the sign-flip
// scenario, for checking group-level monotonicity against the estimates.
func TrueEffects(ds genml.Dataset) []float64 {
	out := make([]float64, ds.Len())
	for i := range out {
		out[i] = ds.X[i][2]
	}
	return out
}

func baseDataset(n int, rng *rand.Rand) genml.Dataset {
	ds := genml.Dataset{
		X: make([][]float64, n),
		Y: make([]float64, n),
		D: make([]float64, n),
		P: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		ds.X[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if rng.Float64() < demoPropensity {
			ds.D[i] = 1
		}
		ds.P[i] = demoPropensity
	}
	return ds
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
