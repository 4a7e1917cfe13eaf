package estimation

import (
	"math"
	"math/rand"

	"genml/domain/core"
	"genml/domain/genml"
)

// Partition assigns each observation to the main or auxiliary sample,
// stratified by treatment arm: within each arm, floor(probM * arm size)
// observations are drawn without replacement into the main sample and the
// rest stay auxiliary. The two draws are independent and come from the
// injected generator so runs are reproducible.
func Partition(d []float64, probM float64, rng *rand.Rand) ([]genml.Sample, error) {
	if len(d) == 0 {
		return nil, core.ErrEmptyDataset
	}
	if probM < 0 || probM > 1 {
		return nil, core.ErrInvalidMainShare
	}

	var treated, control []int
	for i, v := range d {
		switch v {
		case 1:
			treated = append(treated, i)
		case 0:
			control = append(control, i)
		default:
			return nil, core.ErrNonBinaryTreatment
		}
	}
	if len(treated) == 0 || len(control) == 0 {
		return nil, core.ErrEmptyArm
	}

	labels := make([]genml.Sample, len(d))
	for i := range labels {
		labels[i] = genml.SampleAuxiliary
	}
	drawMain(treated, probM, rng, labels)
	drawMain(control, probM, rng, labels)

	return labels, nil
}

// drawMain marks floor(probM * len(arm)) indices of one arm as main.
func drawMain(arm []int, probM float64, rng *rand.Rand, labels []genml.Sample) {
	size := int(math.Floor(probM * float64(len(arm))))
	shuffled := make([]int, len(arm))
	copy(shuffled, arm)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, idx := range shuffled[:size] {
		labels[idx] = genml.SampleMain
	}
}
