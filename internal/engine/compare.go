package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string             `json:"name"`
	Settings model.PackSettings `json:"settings"`
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario. Err is set when that scenario's run failed.
type ComparisonResult struct {
	Scenario          ComparisonScenario `json:"scenario"`
	Result            model.PackResult   `json:"result"`
	FittedCount       int                `json:"fitted_count"`
	UnfittedCount     int                `json:"unfitted_count"`
	Efficiency        float64            `json:"efficiency"`
	WeightUtilization float64            `json:"weight_utilization"`
	Err               error              `json:"-"`
}

// CompareScenarios packs the same cargo once per scenario. Runs share no
// state and execute on at most workers goroutines (0 means GOMAXPROCS).
// Results are returned in scenario order. The returned error is non-nil only
// for invalid container or specs, or when ctx ends before all runs finish.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, c model.Container, specs []model.CargoSpec, workers int) ([]ComparisonResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateSpecs(specs); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]ComparisonResult, len(scenarios))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, scenario := range scenarios {
		g.Go(func() error {
			res, err := New(scenario.Settings).Pack(ctx, c, specs)
			st := res.Stats()
			results[i] = ComparisonResult{
				Scenario:          scenario,
				Result:            res,
				FittedCount:       st.FittedItems,
				UnfittedCount:     st.UnfittedItems,
				Efficiency:        st.VolumeEfficiency,
				WeightUtilization: st.WeightUtilization,
				Err:               err,
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("comparing scenarios: %w", err)
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: looser and stricter support requirements
	for _, f := range []float64{0.4, 0.7} {
		if base.SupportFraction == f {
			continue
		}
		alt := base
		alt.SupportFraction = f
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Support %.0f%%", f*100),
			Settings: alt,
		})
	}

	// Scenario: the other rotation mode
	altRot := base
	if base.Rotation == model.RotationAll {
		altRot.Rotation = model.RotationUpright
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Upright Only",
			Settings: altRot,
		})
	} else {
		altRot.Rotation = model.RotationAll
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "All Rotations",
			Settings: altRot,
		})
	}

	// Scenario: weight reported but not enforced
	if base.EnforceWeightLimit {
		noWeight := base
		noWeight.EnforceWeightLimit = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Weight Report Only",
			Settings: noWeight,
		})
	}

	return scenarios
}

// ComparisonSummary aggregates the successful runs of a comparison.
type ComparisonSummary struct {
	Runs             int     `json:"runs"`
	MeanEfficiency   float64 `json:"mean_efficiency"`
	StdDevEfficiency float64 `json:"stddev_efficiency"`
	MeanFitted       float64 `json:"mean_fitted"`
	BestScenario     string  `json:"best_scenario"`
	BestEfficiency   float64 `json:"best_efficiency"`
}

// Summarize computes mean and standard deviation of the efficiency over the
// runs without error. The best scenario has the most fitted units, then the
// highest efficiency.
func Summarize(results []ComparisonResult) ComparisonSummary {
	var eff, fitted []float64
	var sum ComparisonSummary
	bestFitted := -1
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		eff = append(eff, r.Efficiency)
		fitted = append(fitted, float64(r.FittedCount))
		if r.FittedCount > bestFitted || (r.FittedCount == bestFitted && r.Efficiency > sum.BestEfficiency) {
			bestFitted = r.FittedCount
			sum.BestScenario = r.Scenario.Name
			sum.BestEfficiency = r.Efficiency
		}
	}

	sum.Runs = len(eff)
	switch len(eff) {
	case 0:
	case 1:
		sum.MeanEfficiency = eff[0]
		sum.MeanFitted = fitted[0]
	default:
		sum.MeanEfficiency, sum.StdDevEfficiency = stat.MeanStdDev(eff, nil)
		sum.MeanFitted = stat.Mean(fitted, nil)
	}
	return sum
}
