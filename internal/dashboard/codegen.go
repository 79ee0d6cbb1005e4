package dashboard

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/insights"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// kpiCard is one headline number on the dashboard
type kpiCard struct {
	Label string
	Value string
}

func kpiCards(rep *profile.Report) []kpiCard {
	return []kpiCard{
		{Label: "Rows", Value: fmt.Sprintf("%d", rep.Info.Rows)},
		{Label: "Columns", Value: fmt.Sprintf("%d", rep.Info.Columns)},
		{Label: "Numeric Columns", Value: fmt.Sprintf("%d", len(rep.Numeric))},
		{Label: "Quality Score", Value: fmt.Sprintf("%.0f / 100", rep.Quality.Score)},
	}
}

// generateHTML builds the dashboard document with the JS injection marker
// still in place. finalize swaps the marker for the chart bootstrap script.
func generateHTML(title string, layout Layout, specs []charts.Spec, ins *insights.Result, rep *profile.Report) (string, error) {
	pal := PaletteFor(layout.Type)

	dataJSON, err := json.Marshal(specs)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart specs: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", plotlyCDN)
	writeCSS(&b, pal)
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<header class=\"dash-header\"><h1>%s</h1></header>\n", html.EscapeString(title))
	b.WriteString("<main class=\"dash-grid\">\n")

	chartIdx := 0
	for _, section := range layout.Sections {
		switch section.Kind {
		case SectionKPI:
			fmt.Fprintf(&b, "<section id=\"%s\" class=\"dash-section kpi-row\" style=\"grid-column: span %d;\">\n", section.ID, section.Span)
			for _, card := range kpiCards(rep) {
				fmt.Fprintf(&b, "<div class=\"kpi-card\"><div class=\"kpi-value\">%s</div><div class=\"kpi-label\">%s</div></div>\n",
					html.EscapeString(card.Value), html.EscapeString(card.Label))
			}
			b.WriteString("</section>\n")

		case SectionChart:
			fmt.Fprintf(&b, "<section id=\"%s\" class=\"dash-section\" style=\"grid-column: span %d;\">\n", section.ID, section.Span)
			if chartIdx < len(specs) {
				spec := specs[chartIdx]
				fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(spec.Title))
				fmt.Fprintf(&b, "<div id=\"chart-container-%d\" class=\"chart-container\" style=\"height: %dpx;\"></div>\n", chartIdx, section.Height)
				fmt.Fprintf(&b, "<p class=\"chart-desc\">%s</p>\n", html.EscapeString(spec.Description))
				chartIdx++
			} else {
				b.WriteString("<div class=\"chart-container chart-empty\"></div>\n")
			}
			b.WriteString("</section>\n")

		case SectionInsights:
			fmt.Fprintf(&b, "<section id=\"%s\" class=\"dash-section insights-panel\" style=\"grid-column: span %d;\">\n", section.ID, section.Span)
			b.WriteString("<h2>Insights</h2>\n")
			if ins != nil {
				fmt.Fprintf(&b, "<p class=\"insights-summary\">%s</p>\n", html.EscapeString(ins.Summary))
				if len(ins.Findings) > 0 {
					b.WriteString("<ul class=\"insights-list\">\n")
					for _, finding := range ins.Findings {
						fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(finding))
					}
					b.WriteString("</ul>\n")
				}
				if len(ins.Actions) > 0 {
					b.WriteString("<h3>Recommended Actions</h3>\n<ul class=\"insights-list\">\n")
					for _, action := range ins.Actions {
						fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(action))
					}
					b.WriteString("</ul>\n")
				}
			}
			b.WriteString("</section>\n")
		}
	}

	b.WriteString("</main>\n")

	fmt.Fprintf(&b, "<script id=\"dashboard-data\" type=\"application/json\">%s</script>\n", string(dataJSON))
	fmt.Fprintf(&b, "<script>\n%s\n</script>\n", jsMarker)
	b.WriteString("</body>\n</html>\n")

	return b.String(), nil
}

func writeCSS(b *strings.Builder, pal Palette) {
	fmt.Fprintf(b, `<style>
:root {
  --primary: %s;
  --secondary: %s;
  --accent: %s;
  --background: %s;
}
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: var(--background); color: #1f2937; }
.dash-header { background: var(--primary); color: white; padding: 20px 32px; }
.dash-header h1 { margin: 0; font-size: 1.5rem; }
.dash-grid { display: grid; grid-template-columns: repeat(12, 1fr); gap: 16px; padding: 24px; max-width: 1440px; margin: 0 auto; }
.dash-section { background: white; border-radius: 8px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.dash-section h2 { margin: 0 0 12px; font-size: 1.05rem; color: var(--primary); }
.kpi-row { display: flex; gap: 16px; flex-wrap: wrap; }
.kpi-card { flex: 1; min-width: 140px; background: var(--background); border-left: 4px solid var(--secondary); border-radius: 6px; padding: 12px 16px; }
.kpi-value { font-size: 1.6rem; font-weight: 700; color: var(--primary); }
.kpi-label { font-size: 0.85rem; color: #6b7280; }
.chart-container { width: 100%%; }
.chart-desc { font-size: 0.8rem; color: #6b7280; margin: 8px 0 0; }
.insights-panel .insights-summary { font-size: 0.95rem; }
.insights-list { padding-left: 20px; }
.insights-list li { margin-bottom: 6px; font-size: 0.9rem; }
@media (max-width: 900px) { .dash-grid > .dash-section { grid-column: span 12 !important; } }
</style>
`, pal.Primary, pal.Secondary, pal.Accent, pal.Background)
}

// generateJS builds the Plotly bootstrap script injected at finalize
func generateJS(specCount int) string {
	return fmt.Sprintf(`(function () {
  var dataNode = document.getElementById('dashboard-data');
  if (!dataNode) { return; }
  var specs = JSON.parse(dataNode.textContent);
  for (var i = 0; i < %d && i < specs.length; i++) {
    var el = document.getElementById('chart-container-' + i);
    if (!el) { continue; }
    var layout = specs[i].layout || {};
    layout.autosize = true;
    Plotly.newPlot(el, specs[i].data, layout, { responsive: true, displayModeBar: false });
  }
})();`, specCount)
}

// finalizeHTML injects the chart bootstrap script in place of the marker
func finalizeHTML(htmlDoc string, specCount int) string {
	return strings.Replace(htmlDoc, jsMarker, generateJS(specCount), 1)
}
