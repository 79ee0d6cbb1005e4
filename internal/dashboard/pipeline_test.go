package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/insights"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = "units,price,region\n1,10,north\n2,20,south\n3,30,north\n4,40,south\n5,50,north\n"

func pipelineFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.ReadCSVString(salesCSV)
	require.NoError(t, err)
	return f
}

const insightsJSON = `{"summary": "Units and price move together.", "findings": ["Revenue scales with units."], "actions": ["Check pricing tiers."]}`

func TestPipelineDeterministicRun(t *testing.T) {
	var events []ProgressEvent
	p := NewPipeline(nil)

	res, err := p.Run(context.Background(), Input{
		Frame:         pipelineFrame(t),
		Title:         "Sales Overview",
		DashboardType: "exploratory",
	}, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	wantSteps := []string{StepInit, StepProfile, StepLayout, StepCharts, StepInsights, StepGenerate, StepVerify, StepFinalize}
	require.Len(t, res.Steps, len(wantSteps))
	for i, s := range res.Steps {
		assert.Equal(t, wantSteps[i], s.Name)
		assert.Equal(t, "completed", s.Status)
	}

	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, GeneratorDeterministic, res.Generator)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.ChartSpecs)

	require.NotNil(t, res.Insights)
	assert.Equal(t, insights.SourceFallback, res.Insights.Source)

	require.NotNil(t, res.Verification)
	assert.True(t, res.Verification.Passed)

	// Finalize swaps the marker for the chart bootstrap
	assert.NotContains(t, res.HTML, jsMarker)
	assert.Contains(t, res.HTML, "Plotly.newPlot")
	assert.Contains(t, res.HTML, "<title>Sales Overview</title>")

	// Every step emits a started and a completed event
	require.Len(t, events, 2*len(wantSteps))
	assert.Equal(t, StepInit, events[0].Step)
	assert.Equal(t, "started", events[0].Status)
	assert.Equal(t, StepFinalize, events[len(events)-1].Step)
	assert.Equal(t, "completed", events[len(events)-1].Status)
}

func TestPipelineRequiresFrame(t *testing.T) {
	_, err := NewPipeline(nil).Run(context.Background(), Input{}, nil)
	assert.Error(t, err)
}

func TestPipelineDefaultTitle(t *testing.T) {
	res, err := NewPipeline(nil).Run(context.Background(), Input{Frame: pipelineFrame(t)}, nil)
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<title>Automated EDA Dashboard</title>")
}

func TestPipelineLLMGeneratedDocument(t *testing.T) {
	// Precompute the document the pipeline would ask the model for so the
	// scripted response passes verification against the real layout.
	f := pipelineFrame(t)
	rep := profile.Describe(f)
	layout := LayoutFor(charts.TypeExecutive)
	specs := charts.Recommend(charts.Generate(f, rep), charts.TypeExecutive, layout.ChartCapacity())
	doc, err := generateHTML("Board Pack", layout, specs, nil, rep)
	require.NoError(t, err)

	mock := &llm.MockProvider{Responses: []string{insightsJSON, doc}}

	res, err := NewPipeline(mock).Run(context.Background(), Input{
		Frame:         f,
		Title:         "Board Pack",
		DashboardType: "executive",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, GeneratorLLM, res.Generator)
	assert.Empty(t, res.Errors)
	assert.True(t, res.Verification.Passed)
	assert.Equal(t, insights.SourceLLM, res.Insights.Source)
	assert.NotContains(t, res.HTML, jsMarker)

	// One call for insights, one for the document
	assert.Len(t, mock.Calls, 2)
}

func TestPipelineFallsBackWhenLLMOutputUnusable(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{insightsJSON, "sorry, I cannot build dashboards"}}

	res, err := NewPipeline(mock).Run(context.Background(), Input{
		Frame:         pipelineFrame(t),
		DashboardType: "exploratory",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, GeneratorDeterministic, res.Generator)
	assert.True(t, res.Verification.Passed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "llm generation")
}

func TestPipelineRegeneratesWhenLLMDocumentFailsVerification(t *testing.T) {
	// Carries the injection marker but is structurally broken
	broken := "<p>almost a dashboard</p>\n<script>\n" + jsMarker + "\n</script>\n"
	mock := &llm.MockProvider{Responses: []string{insightsJSON, broken}}

	res, err := NewPipeline(mock).Run(context.Background(), Input{
		Frame:         pipelineFrame(t),
		DashboardType: "executive",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, GeneratorDeterministic, res.Generator)
	assert.True(t, res.Verification.Passed)
	assert.Contains(t, strings.Join(res.Errors, "\n"), "failed verification")
}
