package report

import (
	"fmt"
	"strings"

	"genml/domain/genml"

	"github.com/montanaflynn/stats"
)

// Markdown renders an estimation result as a Markdown report: run metadata,
// the aggregator-specific coefficient table, and a distribution block for
// the grouped score when GATES ran.
func Markdown(result *genml.EstimationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Estimation Run %s\n\n", result.RunID)
	fmt.Fprintf(&b, "- Second stage: `%s`\n", result.SecondStage)
	fmt.Fprintf(&b, "- Main sample: %d observations (auxiliary: %d)\n", result.MainCount, result.AuxCount)
	fmt.Fprintf(&b, "- Seed: %d\n", result.Seed)
	fmt.Fprintf(&b, "- Runtime: %dms\n\n", result.RuntimeMs)

	switch {
	case result.BLP != nil:
		writeBLP(&b, result.BLP)
	case result.GATES != nil:
		writeGATES(&b, result.GATES)
	}

	if fit := result.Fit(); fit != nil {
		fmt.Fprintf(&b, "\n## Fit\n\n")
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Observations | %d |\n", fit.NObs)
		fmt.Fprintf(&b, "| Df residuals | %d |\n", fit.DOF)
		fmt.Fprintf(&b, "| Scale | %.6g |\n", fit.Sigma2)
	}

	return b.String()
}

func writeBLP(b *strings.Builder, blp *genml.BLPResult) {
	fmt.Fprintf(b, "## Best Linear Predictor\n\n")
	fmt.Fprintf(b, "| Target | Estimate | Std err | P>\\|t\\| |\n")
	fmt.Fprintf(b, "|---|---:|---:|---:|\n")
	for _, idx := range []int{2, 3} {
		c := blp.Fit.Coefficients[idx]
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.3f |\n", c.Label, c.Estimate, c.StdErr, c.PValue)
	}
}

func writeGATES(b *strings.Builder, gates *genml.GATESResult) {
	fmt.Fprintf(b, "## Group Average Treatment Effects\n\n")
	fmt.Fprintf(b, "| Group | Lower quantile | Score edge | Count | Baseline | Treatment |\n")
	fmt.Fprintf(b, "|---:|---:|---:|---:|---:|---:|\n")
	for g := range gates.CoefTreatment {
		fmt.Fprintf(b, "| %d | %.2f | %.4f | %d | %.4f | %.4f |\n",
			g, gates.BinProbs[g]/100, gates.BinEdges[g], gates.BinCounts[g],
			gates.CoefBaseline[g], gates.CoefTreatment[g])
	}

	if block := scoreDistribution(gates.BinEdges); block != "" {
		fmt.Fprintf(b, "\n### Score edge distribution\n\n%s", block)
	}
}

// scoreDistribution summarizes the bin edges so a reader can eyeball the
// spread of the proxy score without the raw vector.
func scoreDistribution(edges []float64) string {
	mean, err := stats.Mean(edges)
	if err != nil {
		return ""
	}
	sd, _ := stats.StandardDeviation(edges)
	min, _ := stats.Min(edges)
	max, _ := stats.Max(edges)
	median, _ := stats.Median(edges)

	var b strings.Builder
	fmt.Fprintf(&b, "| Mean | Median | Std dev | Min | Max |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %.4f | %.4f | %.4f | %.4f | %.4f |\n", mean, median, sd, min, max)
	return b.String()
}
