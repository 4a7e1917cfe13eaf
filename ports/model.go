package ports

// ProxyModel is the fit/predict capability the first stage trains. Any
// conforming learner works: linear models, tree ensembles, neural nets.
//
// Fit fully overwrites previously learned state - the estimation pipeline
// relies on re-fitting one shared instance twice in sequence, so an
// incremental learner must reset itself on every Fit call.
type ProxyModel interface {
	Fit(features [][]float64, target []float64) error
	Predict(features [][]float64) ([]float64, error)
}
