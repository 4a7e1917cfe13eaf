package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"genml/adapters/excel"
	"genml/adapters/model"
	"genml/adapters/report"
	"genml/adapters/rng"
	"genml/adapters/solver"
	"genml/app"
	"genml/domain/genml"
	"genml/internal/testkit"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "genml-cli",
		Short: "genml CLI for single-split heterogeneous treatment effect estimation",
	}

	rootCmd.AddCommand(
		newEstimateCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type estimateOptions struct {
	secondStage string
	q           int
	probM       float64
	seed        int64
	sheet       string
	outcomeCol  string
	treatCol    string
	propCol     string
	asJSON      bool
	asMarkdown  bool
}

func (o *estimateOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.secondStage, "stage", "blp", `second stage aggregator: "blp" or "gates"`)
	cmd.Flags().IntVar(&o.q, "q", app.DefaultGroupCount, "number of quantile groups (gates only)")
	cmd.Flags().Float64Var(&o.probM, "prob-m", app.DefaultMainShare, "share of each arm drawn into the main sample")
	cmd.Flags().Int64Var(&o.seed, "seed", 42, "base seed for the split and tie-breaking jitter")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "emit the structured result as JSON")
	cmd.Flags().BoolVar(&o.asMarkdown, "markdown", false, "emit a Markdown report instead of the summary table")
}

func (o *estimateOptions) runOnce(ctx context.Context, ds genml.Dataset) (*genml.EstimationResult, error) {
	service := app.NewEstimationService(model.NewLinear(), solver.NewWLS(), rng.NewSeeded(o.seed), nil)
	return service.Run(ctx, app.EstimateRequest{
		Dataset:     ds,
		SecondStage: genml.SecondStage(o.secondStage),
		Q:           o.q,
		ProbM:       o.probM,
		WithSummary: true,
	})
}

func (o *estimateOptions) emit(path string, result *genml.EstimationResult) error {
	if path != "" {
		fmt.Printf("== %s\n", path)
	}
	switch {
	case o.asJSON:
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	case o.asMarkdown:
		fmt.Println(report.Markdown(result))
	default:
		fmt.Println(result.Summary)
	}
	return nil
}

func newEstimateCmd() *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate [files...]",
		Short: "Run single-split estimation over one or more .xlsx/.csv datasets",
		Long: `Run the single-split Generic ML pipeline over dataset files.

Each file needs outcome, treatment and propensity columns; every other
column is treated as a feature. Independent files are processed
concurrently - each run itself stays single-threaded.

Example: genml-cli estimate trial.xlsx --stage gates --q 5 --seed 7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]*genml.EstimationResult, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					reader := excel.NewDatasetReader(excel.ReaderConfig{
						FilePath:         path,
						Sheet:            opts.sheet,
						OutcomeColumn:    opts.outcomeCol,
						TreatmentColumn:  opts.treatCol,
						PropensityColumn: opts.propCol,
					})
					ds, err := reader.ReadDataset()
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					result, err := opts.runOnce(ctx, ds)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = result
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, result := range results {
				if err := opts.emit(args[i], result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet name for .xlsx inputs")
	cmd.Flags().StringVar(&opts.outcomeCol, "outcome-col", "y", "outcome column name")
	cmd.Flags().StringVar(&opts.treatCol, "treatment-col", "d", "treatment indicator column name")
	cmd.Flags().StringVar(&opts.propCol, "propensity-col", "p", "propensity column name")
	return cmd
}

func newDemoCmd() *cobra.Command {
	opts := &estimateOptions{}
	var scenario string
	var n int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a synthetic scenario with known ground truth",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := rand.New(rand.NewSource(opts.seed))
			var ds genml.Dataset
			switch scenario {
			case "linear":
				ds = testkit.LinearEffectScenario(n, gen)
			case "constant":
				ds = testkit.ConstantEffectScenario(n, 0.7, gen)
			case "signflip":
				ds = testkit.SignFlipScenario(n, gen)
			default:
				return fmt.Errorf("unknown scenario %q (want linear, constant or signflip)", scenario)
			}

			result, err := opts.runOnce(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return opts.emit("", result)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&scenario, "scenario", "linear", "synthetic scenario: linear, constant or signflip")
	cmd.Flags().IntVar(&n, "n", 1000, "number of synthetic observations")
	return cmd
}
