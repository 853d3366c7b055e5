package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoFit/internal/engine"
)

func TestRenderComparisonChart(t *testing.T) {
	results := []engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Current Settings"}, FittedCount: 10, Efficiency: 42.5},
		{Scenario: engine.ComparisonScenario{Name: "Support 70%"}, FittedCount: 8, Efficiency: 35},
		{Scenario: engine.ComparisonScenario{Name: "Broken"}, Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderComparisonChart(&buf, results))

	html := buf.String()
	assert.Contains(t, html, "Scenario Comparison")
	assert.Contains(t, html, "Support 70%")
	assert.NotContains(t, html, "Broken")
}

func TestRenderComparisonChart_NoSuccessfulRuns(t *testing.T) {
	results := []engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Broken"}, Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	assert.Error(t, RenderComparisonChart(&buf, results))
}
