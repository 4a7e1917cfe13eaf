package estimation

import (
	"fmt"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/ports"
)

// MLProxy trains baseline and treatment-effect proxies on the auxiliary
// sample and predicts for every observation.
//
// The same model instance is fit twice, strictly in sequence: first on
// auxiliary controls (baseline outcome given features), then - after
// predicting the baseline for all rows - on auxiliary treated rows against
// the residual Y - b_hat. The second Fit is a full overwrite of the first,
// never an incremental update.
func MLProxy(model ports.ProxyModel, x [][]float64, y, d []float64, labels []genml.Sample) (*genml.ProxyPrediction, error) {
	n := len(y)
	if len(x) != n || len(d) != n || len(labels) != n {
		return nil, core.ErrLengthMismatch
	}

	var ctrlRows, treatRows []int
	for i := range labels {
		if labels[i] != genml.SampleAuxiliary {
			continue
		}
		if d[i] == 0 {
			ctrlRows = append(ctrlRows, i)
		} else {
			treatRows = append(treatRows, i)
		}
	}
	if len(ctrlRows) == 0 {
		return nil, fmt.Errorf("%w: no auxiliary control rows to fit the baseline proxy", core.ErrEmptyAuxiliary)
	}
	if len(treatRows) == 0 {
		return nil, fmt.Errorf("%w: no auxiliary treated rows to fit the effect proxy", core.ErrEmptyAuxiliary)
	}

	if err := model.Fit(gatherRows(x, ctrlRows), gatherVec(y, ctrlRows)); err != nil {
		return nil, fmt.Errorf("baseline proxy fit: %w", err)
	}
	predCtrl, err := model.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("baseline proxy predict: %w", err)
	}

	residual := make([]float64, len(treatRows))
	for i, row := range treatRows {
		residual[i] = y[row] - predCtrl[row]
	}
	if err := model.Fit(gatherRows(x, treatRows), residual); err != nil {
		return nil, fmt.Errorf("effect proxy fit: %w", err)
	}
	predTreat, err := model.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("effect proxy predict: %w", err)
	}

	return &genml.ProxyPrediction{BHat: predCtrl, SHat: predTreat}, nil
}

func gatherRows(x [][]float64, rows []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = x[r]
	}
	return out
}

func gatherVec(v []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = v[r]
	}
	return out
}
