package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFor(t *testing.T, csv string) *profile.Report {
	t.Helper()
	f, err := dataset.ReadCSVString(csv)
	require.NoError(t, err)
	return profile.Describe(f)
}

func TestGenerateWithoutProviderUsesFallback(t *testing.T) {
	rep := reportFor(t, "v\n1\n2\n3\n")

	out := Generate(context.Background(), nil, rep, "exploratory")
	require.NotNil(t, out)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Contains(t, out.Summary, "3 rows")
}

func TestGenerateWithLLM(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{
		`{"summary": "Sales look healthy.", "findings": ["Revenue is right-skewed."], "actions": ["Segment by region."]}`,
	}}
	rep := reportFor(t, "v\n1\n2\n3\n")

	out := Generate(context.Background(), mock, rep, "executive")
	assert.Equal(t, SourceLLM, out.Source)
	assert.Equal(t, "Sales look healthy.", out.Summary)
	assert.Equal(t, []string{"Revenue is right-skewed."}, out.Findings)

	// System prompt follows the dashboard type
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].System, "executives")
}

func TestGenerateFallsBackOnLLMError(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("quota exceeded")}
	rep := reportFor(t, "v\n1\n2\n3\n")

	out := Generate(context.Background(), mock, rep, "exploratory")
	assert.Equal(t, SourceFallback, out.Source)
}

func TestGenerateFallsBackOnEmptyLLMResult(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{`{"summary": "", "findings": []}`}}
	rep := reportFor(t, "v\n1\n2\n3\n")

	out := Generate(context.Background(), mock, rep, "exploratory")
	assert.Equal(t, SourceFallback, out.Source)
}

func TestFallbackFindings(t *testing.T) {
	// Missing cells, duplicates and a perfect correlation
	rep := reportFor(t, "x,y,c\n1,2,a\n2,4,a\n3,6,\n1,2,a\n4,8,a\n5,10,a\n")

	out := Fallback(rep, "exploratory")
	joined := strings.Join(out.Findings, "\n")
	assert.Contains(t, joined, "missing")
	assert.Contains(t, joined, "duplicates")
	assert.Contains(t, joined, "strongly positively correlated")

	actions := strings.Join(out.Actions, "\n")
	assert.Contains(t, actions, "duplicate")
	assert.Contains(t, actions, "collinear")
}

func TestFallbackCleanData(t *testing.T) {
	rep := reportFor(t, "c\na\nb\nc\nd\ne\nf\n")

	out := Fallback(rep, "exploratory")
	assert.Equal(t, []string{"The dataset is in good shape; proceed with analysis."}, out.Actions)
}

func TestFallbackDominantCategory(t *testing.T) {
	rep := reportFor(t, "c\nx\nx\nx\nx\ny\n")

	out := Fallback(rep, "exploratory")
	joined := strings.Join(out.Findings, "\n")
	assert.Contains(t, joined, "dominated by")
}
