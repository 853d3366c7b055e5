package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/CargoFit/internal/engine"
)

// RenderComparisonChart writes an HTML page with a bar chart of volume
// efficiency and loaded units per scenario. Failed scenarios are skipped.
func RenderComparisonChart(w io.Writer, results []engine.ComparisonResult) error {
	var names []string
	var eff, fitted []opts.BarData
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		names = append(names, r.Scenario.Name)
		eff = append(eff, opts.BarData{Value: fmt.Sprintf("%.1f", r.Efficiency)})
		fitted = append(fitted, opts.BarData{Value: r.FittedCount})
	}
	if len(names) == 0 {
		return fmt.Errorf("no successful scenarios to chart")
	}

	sum := engine.Summarize(results)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "CargoFit Scenario Comparison", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Scenario Comparison",
			Subtitle: fmt.Sprintf("mean efficiency %.1f%% (sd %.1f), best: %s", sum.MeanEfficiency, sum.StdDevEfficiency, sum.BestScenario),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("Volume efficiency (%)", eff,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		).
		AddSeries("Units loaded", fitted,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	return bar.Render(w)
}
