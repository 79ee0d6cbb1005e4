package dashboard

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
)

// Check is one verification result
type Check struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Passed   bool   `json:"passed"`
	Detail   string `json:"detail,omitempty"`
}

// VerificationReport is the heuristic checklist run over generated HTML
type VerificationReport struct {
	Checks []Check `json:"checks"`
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
}

var placeholderRe = regexp.MustCompile(`\{\{[^}]*\}\}`)

// Verify runs the structural and content checks over a dashboard document.
// Required checks gate acceptance; advisory checks only affect the score.
func Verify(htmlDoc string, layout Layout, specCount int) *VerificationReport {
	lower := strings.ToLower(htmlDoc)
	report := &VerificationReport{}

	add := func(name string, required, passed bool, detail string) {
		if passed {
			detail = ""
		}
		report.Checks = append(report.Checks, Check{
			Name:     name,
			Required: required,
			Passed:   passed,
			Detail:   detail,
		})
	}

	add("doctype", true, strings.HasPrefix(strings.TrimSpace(lower), "<!doctype html>"),
		"document does not start with <!DOCTYPE html>")

	add("closed_tags", true,
		strings.Contains(lower, "</html>") && strings.Contains(lower, "</head>") && strings.Contains(lower, "</body>"),
		"html, head or body tag is not closed")

	add("plotly_script", true, strings.Contains(lower, "plotly"),
		"no Plotly script tag found")

	missingSection := ""
	for _, section := range layout.Sections {
		if !strings.Contains(htmlDoc, fmt.Sprintf("id=\"%s\"", section.ID)) {
			missingSection = section.ID
			break
		}
	}
	add("layout_sections", true, missingSection == "",
		fmt.Sprintf("layout section %q has no container", missingSection))

	add("data_json", true, embeddedDataParses(htmlDoc),
		"embedded dashboard data is not valid JSON")

	add("no_placeholders", true, !placeholderRe.MatchString(htmlDoc),
		"unresolved {{...}} template placeholders remain")

	add("title", true, extractTitle(htmlDoc) != "",
		"document title is empty")

	// Advisory checks
	add("insights_populated", false,
		strings.Contains(lower, "insights-summary") || strings.Contains(lower, "<li>"),
		"insights panel appears empty")

	add("responsive_meta", false, strings.Contains(lower, "viewport"),
		"no responsive viewport meta tag")

	add("chart_count", false, strings.Count(htmlDoc, "chart-container-") >= minInt(specCount, layout.ChartCapacity()),
		"fewer chart containers than recommended charts")

	requiredWeight, advisoryWeight := 1.0, 0.5
	total, earned := 0.0, 0.0
	report.Passed = true
	for _, c := range report.Checks {
		w := advisoryWeight
		if c.Required {
			w = requiredWeight
			if !c.Passed {
				report.Passed = false
			}
		}
		total += w
		if c.Passed {
			earned += w
		} else {
			metrics.Get().VerificationFailures.WithLabelValues(c.Name, fmt.Sprintf("%t", c.Required)).Inc()
		}
	}
	if total > 0 {
		report.Score = earned / total
	}

	return report
}

// embeddedDataParses extracts the dashboard-data JSON block and parses it.
// Documents without the block fail; the deterministic generator always
// writes one.
func embeddedDataParses(htmlDoc string) bool {
	const open = "type=\"application/json\">"
	start := strings.Index(htmlDoc, open)
	if start < 0 {
		return false
	}
	rest := htmlDoc[start+len(open):]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		return false
	}
	var v interface{}
	return json.Unmarshal([]byte(rest[:end]), &v) == nil
}

var titleRe = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

func extractTitle(htmlDoc string) string {
	m := titleRe.FindStringSubmatch(htmlDoc)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
