package estimation

import (
	"math/rand"

	"genml/domain/core"
	"genml/domain/genml"
	"genml/ports"
)

// Combine runs the full single-split pipeline: stratified partition, proxy
// training on the auxiliary sample, then the selected aggregator on
// main-sample rows. The second stage is validated before any partitioning
// or fitting happens.
func Combine(model ports.ProxyModel, solver ports.WLSSolver, ds genml.Dataset,
	secondStage genml.SecondStage, q int, probM float64, rng *rand.Rand) (*genml.EstimationResult, error) {

	if !secondStage.IsValid() {
		return nil, core.ErrUnknownSecondStage
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	labels, err := Partition(ds.D, probM, rng)
	if err != nil {
		return nil, err
	}

	proxy, err := MLProxy(model, ds.X, ds.Y, ds.D, labels)
	if err != nil {
		return nil, err
	}

	var mainRows []int
	for i, label := range labels {
		if label == genml.SampleMain {
			mainRows = append(mainRows, i)
		}
	}
	if len(mainRows) == 0 {
		return nil, core.ErrEmptyMain
	}

	y := gatherVec(ds.Y, mainRows)
	d := gatherVec(ds.D, mainRows)
	p := gatherVec(ds.P, mainRows)

	result := &genml.EstimationResult{
		SecondStage: secondStage,
		MainCount:   len(mainRows),
		AuxCount:    ds.Len() - len(mainRows),
	}

	switch secondStage {
	case genml.SecondStageBLP:
		blp, err := BLP(solver, y, d, p, gatherVec(proxy.BHat, mainRows), gatherVec(proxy.SHat, mainRows))
		if err != nil {
			return nil, err
		}
		result.BLP = blp
	case genml.SecondStageGATES:
		gates, err := GATES(solver, y, d, p, gatherVec(proxy.SHat, mainRows), q, rng)
		if err != nil {
			return nil, err
		}
		result.GATES = gates
	}

	return result, nil
}
