package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// Insight sources
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Result carries narrative insights plus where they came from
type Result struct {
	Source   string   `json:"source"`
	Summary  string   `json:"summary"`
	Findings []string `json:"findings"`
	Actions  []string `json:"actions"`
}

// promptBudget caps how much profile JSON goes into the prompt
const promptBudget = 6000

// Generate produces narrative insights for a profile. LLM output is used
// when a provider is configured and responds with valid JSON; every failure
// path lands on the deterministic fallback.
func Generate(ctx context.Context, p llm.Provider, rep *profile.Report, dashboardType string) *Result {
	if p == nil {
		return Fallback(rep, dashboardType)
	}

	summary, err := json.Marshal(rep)
	if err != nil {
		return Fallback(rep, dashboardType)
	}
	text := string(summary)
	if len(text) > promptBudget {
		text = text[:promptBudget]
	}

	req := llm.Request{
		System:      systemPrompt(dashboardType),
		Prompt:      fmt.Sprintf(`Dataset profile (JSON, may be truncated): %s

Respond with JSON: {"summary": string, "findings": [string], "actions": [string]}`, text),
		Temperature: 0.4,
		MaxTokens:   1024,
	}

	var out Result
	if err := llm.CompleteJSON(ctx, p, req, &out); err != nil {
		logger.WarnWithFields("LLM insights unavailable, using fallback", err)
		metrics.Get().LLMFallbackTotal.WithLabelValues("insights").Inc()
		return Fallback(rep, dashboardType)
	}
	if out.Summary == "" && len(out.Findings) == 0 {
		metrics.Get().LLMFallbackTotal.WithLabelValues("insights").Inc()
		return Fallback(rep, dashboardType)
	}

	out.Source = SourceLLM
	return &out
}

func systemPrompt(dashboardType string) string {
	switch charts.NormalizeDashboardType(dashboardType) {
	case charts.TypeExecutive:
		return "You are a business analyst writing for executives. Be concise, lead with business impact, avoid statistics jargon. Respond with JSON only."
	case charts.TypeDataQuality:
		return "You are a data quality engineer. Focus on completeness, duplicates, outliers and fitness for use. Respond with JSON only."
	case charts.TypeTimeseries:
		return "You are a data analyst focused on trends over time. Highlight trends, seasonality and changes. Respond with JSON only."
	default:
		return "You are a data analyst doing exploratory analysis. Highlight distributions, relationships and anomalies. Respond with JSON only."
	}
}
