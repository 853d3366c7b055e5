package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/engine"
	"github.com/piwi3910/CargoFit/internal/export"
)

type compareFlags struct {
	jobFlags
	workers int
	chart   string
}

type compareOutput struct {
	Runs    []compareRun             `json:"runs"`
	Summary engine.ComparisonSummary `json:"summary"`
}

type compareRun struct {
	Scenario          string  `json:"scenario"`
	FittedCount       int     `json:"fitted_count"`
	UnfittedCount     int     `json:"unfitted_count"`
	Efficiency        float64 `json:"efficiency"`
	WeightUtilization float64 `json:"weight_utilization"`
	Error             string  `json:"error,omitempty"`
}

// NewCompareCommand creates the "compare" command.
func NewCompareCommand() *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare [cargo-file]",
		Short: "Pack the same cargo under alternative settings",
		Long: `Run the cargo list under the current settings and a set of what-if
variations (support share, rotation mode, weight gating) in parallel and
compare how many units each loads.

Examples:
  cargofit compare cargo.json
  cargofit compare cargo.csv --preset 20ft --chart compare.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, flags)
		},
	}

	flags.jobFlags.register(cmd.Flags())
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Parallel runs (0 = config value or CPU count)")
	cmd.Flags().StringVar(&flags.chart, "chart", "", "Write an HTML bar chart of the comparison")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string, flags *compareFlags) error {
	j, err := flags.resolveJob(cmd, args)
	if err != nil {
		return err
	}
	workers := flags.workers
	if workers <= 0 {
		cfg, err := loadAppConfig()
		if err != nil {
			return err
		}
		workers = cfg.Workers
	}

	scenarios := engine.BuildDefaultScenarios(j.settings)
	VerboseLog("Running %d scenarios", len(scenarios))
	results, err := engine.CompareScenarios(cmd.Context(), scenarios, j.container, j.specs, workers)
	if err != nil {
		return WrapCLIError(ExitGeneralError, "comparison interrupted", err)
	}

	// Every scenario shares the input, so an input error fails them all.
	if len(results) > 0 && results[0].Err != nil {
		return packError(results[0].Err)
	}

	if flags.chart != "" {
		f, err := os.Create(flags.chart)
		if err != nil {
			return WrapCLIError(ExitGeneralError, "failed to create chart file", err)
		}
		err = export.RenderComparisonChart(f, results)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return WrapCLIError(ExitGeneralError, "failed to write chart", err)
		}
		VerboseLog("Wrote chart: %s", flags.chart)
	}

	out := compareOutput{Summary: engine.Summarize(results)}
	for _, r := range results {
		run := compareRun{
			Scenario:          r.Scenario.Name,
			FittedCount:       r.FittedCount,
			UnfittedCount:     r.UnfittedCount,
			Efficiency:        r.Efficiency,
			WeightUtilization: r.WeightUtilization,
		}
		if r.Err != nil {
			run.Error = r.Err.Error()
		}
		out.Runs = append(out.Runs, run)
	}

	w := cmd.OutOrStdout()
	if IsJSONOutput() {
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tLOADED\tNOT LOADED\tVOLUME %\tWEIGHT %")
	for _, r := range out.Runs {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", r.Scenario, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.1f\n", r.Scenario, r.FittedCount, r.UnfittedCount, r.Efficiency, r.WeightUtilization)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nBest: %s (mean volume %.1f%%, sd %.1f)\n", out.Summary.BestScenario, out.Summary.MeanEfficiency, out.Summary.StdDevEfficiency)
	return nil
}
