package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

func llmRequest(prompt string) llm.Request {
	return llm.Request{
		System:      "You are an expert frontend engineer generating standalone HTML dashboards.",
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   8192,
	}
}

// generateWithLLM asks the model for a complete dashboard document built
// around the recommended charts. The caller verifies the output and falls
// back to the deterministic generator when it fails.
func (p *Pipeline) generateWithLLM(ctx context.Context, in Input, layout Layout, specs []charts.Spec, rep *profile.Report) (string, error) {
	pal := PaletteFor(layout.Type)

	specsJSON, err := json.Marshal(specs)
	if err != nil {
		return "", err
	}
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return "", err
	}

	sectionIDs := make([]string, len(layout.Sections))
	for i, s := range layout.Sections {
		sectionIDs[i] = s.ID
	}

	prompt := fmt.Sprintf(`Build a complete, self-contained HTML dashboard document.

Title: %s
Dashboard type: %s
Audience: %s
Context: %s
Color palette: primary %s, secondary %s, accent %s, background %s

Layout (JSON): %s

Chart specs (Plotly JSON): %s

Hard requirements:
- Start with <!DOCTYPE html> and close every html/head/body tag.
- Load Plotly from %s.
- One container element per layout section, with exactly these ids: %s.
- Chart containers must use ids chart-container-0, chart-container-1, ... in order.
- Embed the chart specs verbatim in <script id="dashboard-data" type="application/json">.
- End the body with <script>
%s
</script> exactly as given; do not write any other chart-drawing JavaScript.
- No template placeholders like {{name}}.
Respond with the HTML document only, no markdown fences.`,
		in.Title,
		layout.Type,
		orDefault(in.Audience, "general"),
		orDefault(in.Context, "none provided"),
		pal.Primary, pal.Secondary, pal.Accent, pal.Background,
		layoutJSON,
		specsJSON,
		plotlyCDN,
		strings.Join(sectionIDs, ", "),
		jsMarker,
	)

	text, err := p.LLM.Complete(ctx, llmRequest(prompt))
	if err != nil {
		return "", err
	}

	doc := stripHTMLFences(text)
	if !strings.Contains(doc, jsMarker) {
		return "", fmt.Errorf("llm output is missing the script injection marker")
	}
	return doc, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func stripHTMLFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```html")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
