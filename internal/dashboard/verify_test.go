package dashboard

import (
	"strings"
	"testing"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/insights"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDoc builds a real deterministic document to verify against
func sampleDoc(t *testing.T) (string, Layout, int) {
	t.Helper()
	f, err := dataset.ReadCSVString("v,c\n1,a\n2,b\n3,a\n4,b\n5,a\n")
	require.NoError(t, err)
	rep := profile.Describe(f)

	layout := LayoutFor(charts.TypeExecutive)
	specs := charts.Recommend(charts.Generate(f, rep), charts.TypeExecutive, layout.ChartCapacity())
	ins := insights.Fallback(rep, charts.TypeExecutive)

	doc, err := generateHTML("Sample Dashboard", layout, specs, ins, rep)
	require.NoError(t, err)
	return doc, layout, len(specs)
}

func checkByName(t *testing.T, rep *VerificationReport, name string) Check {
	t.Helper()
	for _, c := range rep.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return Check{}
}

func TestVerifyDeterministicDocument(t *testing.T) {
	doc, layout, n := sampleDoc(t)

	rep := Verify(doc, layout, n)
	assert.True(t, rep.Passed)
	assert.InDelta(t, 1.0, rep.Score, 1e-9)
	for _, c := range rep.Checks {
		assert.True(t, c.Passed, "check %s failed: %s", c.Name, c.Detail)
	}
}

func TestVerifyCatchesPlaceholders(t *testing.T) {
	doc, layout, n := sampleDoc(t)
	doc = strings.Replace(doc, "</main>", "<p>{{leftover}}</p>\n</main>", 1)

	rep := Verify(doc, layout, n)
	assert.False(t, rep.Passed)
	assert.False(t, checkByName(t, rep, "no_placeholders").Passed)
}

func TestVerifyCatchesMissingSection(t *testing.T) {
	doc, layout, n := sampleDoc(t)
	doc = strings.Replace(doc, "id=\"kpi\"", "id=\"kpi-renamed\"", 1)

	rep := Verify(doc, layout, n)
	assert.False(t, rep.Passed)
	check := checkByName(t, rep, "layout_sections")
	assert.False(t, check.Passed)
	assert.Contains(t, check.Detail, "kpi")
}

func TestVerifyCatchesEmptyTitle(t *testing.T) {
	doc, layout, n := sampleDoc(t)
	doc = strings.Replace(doc, "<title>Sample Dashboard</title>", "<title>  </title>", 1)

	rep := Verify(doc, layout, n)
	assert.False(t, rep.Passed)
	assert.False(t, checkByName(t, rep, "title").Passed)
}

func TestVerifyCatchesBadEmbeddedData(t *testing.T) {
	doc := "<!DOCTYPE html>\n<html><head><title>x</title><script src=\"plotly\"></script></head>" +
		"<body></body></html>"

	rep := Verify(doc, Layout{}, 0)
	assert.False(t, checkByName(t, rep, "data_json").Passed)
	assert.False(t, rep.Passed)
}

func TestVerifyAdvisoryChecksDoNotGate(t *testing.T) {
	doc, layout, n := sampleDoc(t)
	doc = strings.Replace(doc, "<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n", "", 1)

	rep := Verify(doc, layout, n)
	assert.True(t, rep.Passed)
	assert.False(t, checkByName(t, rep, "responsive_meta").Passed)
	assert.Less(t, rep.Score, 1.0)
}

func TestLayoutChartCapacity(t *testing.T) {
	assert.Equal(t, 4, LayoutFor(charts.TypeExecutive).ChartCapacity())
	assert.Equal(t, 5, LayoutFor(charts.TypeDataQuality).ChartCapacity())
	assert.Equal(t, 4, LayoutFor(charts.TypeTimeseries).ChartCapacity())
	assert.Equal(t, 8, LayoutFor(charts.TypeExploratory).ChartCapacity())

	// Unknown types fall back to the exploratory grid
	assert.Equal(t, charts.TypeExploratory, LayoutFor("bogus").Type)
}

func TestFinalizeHTMLInjectsBootstrap(t *testing.T) {
	doc, _, n := sampleDoc(t)
	require.Contains(t, doc, jsMarker)

	final := finalizeHTML(doc, n)
	assert.NotContains(t, final, jsMarker)
	assert.Contains(t, final, "Plotly.newPlot")
	assert.Contains(t, final, "dashboard-data")
}
