package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/insights"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline step names, in run order
const (
	StepInit     = "init"
	StepProfile  = "profile"
	StepLayout   = "layout"
	StepCharts   = "charts"
	StepInsights = "insights"
	StepGenerate = "generate"
	StepVerify   = "verify"
	StepFinalize = "finalize"
)

// Generator labels recorded on the result
const (
	GeneratorLLM           = "llm"
	GeneratorDeterministic = "deterministic"
)

// StepStatus records one completed step
type StepStatus struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // completed, failed
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// ProgressEvent streams step updates to WebSocket subscribers
type ProgressEvent struct {
	SessionID string `json:"session_id"`
	Step      string `json:"step"`
	Status    string `json:"status"` // started, completed, failed
	Detail    string `json:"detail,omitempty"`
}

// ProgressFunc receives progress events; may be nil
type ProgressFunc func(ProgressEvent)

// Input describes one dashboard generation run
type Input struct {
	Frame         *dataset.Frame
	Title         string
	DashboardType string
	Context       string
	Audience      string
}

// Result is the completed run
type Result struct {
	SessionID    string              `json:"session_id"`
	HTML         string              `json:"-"`
	ChartSpecs   []charts.Spec       `json:"chart_specs"`
	Insights     *insights.Result    `json:"insights"`
	Verification *VerificationReport `json:"verification"`
	Steps        []StepStatus        `json:"steps"`
	Generator    string              `json:"generator"`
	Errors       []string            `json:"errors,omitempty"`
}

// Pipeline generates dashboards. A nil LLM provider selects the
// deterministic path everywhere.
type Pipeline struct {
	LLM llm.Provider
}

// NewPipeline builds a pipeline around an optional LLM provider
func NewPipeline(provider llm.Provider) *Pipeline {
	return &Pipeline{LLM: provider}
}

// Run executes the fixed step sequence. LLM failures never fail the run;
// they are recorded in Errors and the deterministic path completes the
// artifact, so a usable HTML document always comes back.
func (p *Pipeline) Run(ctx context.Context, in Input, onProgress ProgressFunc) (*Result, error) {
	if in.Frame == nil {
		return nil, fmt.Errorf("pipeline requires a frame")
	}

	result := &Result{}

	// init
	p.step(result, StepInit, onProgress, func() error {
		result.SessionID = uuid.New().String()
		if in.Title == "" {
			in.Title = "Automated EDA Dashboard"
		}
		in.DashboardType = charts.NormalizeDashboardType(in.DashboardType)
		return nil
	})

	// profile
	var rep *profile.Report
	p.step(result, StepProfile, onProgress, func() error {
		rep = profile.Describe(in.Frame)
		return nil
	})

	// layout
	var layout Layout
	p.step(result, StepLayout, onProgress, func() error {
		layout = LayoutFor(in.DashboardType)
		return nil
	})

	// charts
	var recommended []charts.Spec
	p.step(result, StepCharts, onProgress, func() error {
		all := charts.Generate(in.Frame, rep)
		recommended = charts.Recommend(all, in.DashboardType, layout.ChartCapacity())
		result.ChartSpecs = recommended
		return nil
	})

	// insights
	p.step(result, StepInsights, onProgress, func() error {
		result.Insights = insights.Generate(ctx, p.LLM, rep, in.DashboardType)
		return nil
	})

	// generate
	var htmlDoc string
	p.step(result, StepGenerate, onProgress, func() error {
		if p.LLM != nil {
			doc, err := p.generateWithLLM(ctx, in, layout, recommended, rep)
			if err == nil {
				htmlDoc = doc
				result.Generator = GeneratorLLM
				return nil
			}
			result.Errors = append(result.Errors, fmt.Sprintf("llm generation: %v", err))
			metrics.Get().LLMFallbackTotal.WithLabelValues("dashboard_html").Inc()
		}
		doc, err := generateHTML(in.Title, layout, recommended, result.Insights, rep)
		if err != nil {
			return err
		}
		htmlDoc = doc
		result.Generator = GeneratorDeterministic
		return nil
	})

	// verify
	p.step(result, StepVerify, onProgress, func() error {
		result.Verification = Verify(htmlDoc, layout, len(recommended))
		if !result.Verification.Passed && result.Generator == GeneratorLLM {
			// Discard the LLM document and rebuild deterministically
			result.Errors = append(result.Errors, "llm dashboard failed verification, regenerated")
			doc, err := generateHTML(in.Title, layout, recommended, result.Insights, rep)
			if err != nil {
				return err
			}
			htmlDoc = doc
			result.Generator = GeneratorDeterministic
			result.Verification = Verify(htmlDoc, layout, len(recommended))
		}
		metrics.Get().VerificationScore.WithLabelValues(in.DashboardType).Observe(result.Verification.Score)
		return nil
	})

	// finalize
	p.step(result, StepFinalize, onProgress, func() error {
		result.HTML = finalizeHTML(htmlDoc, len(recommended))
		return nil
	})

	status := "completed"
	for _, s := range result.Steps {
		if s.Status == "failed" {
			status = "failed"
		}
	}
	metrics.Get().PipelineRunsTotal.WithLabelValues(in.DashboardType, status).Inc()
	if status == "failed" {
		return result, fmt.Errorf("pipeline completed with failed steps: %v", result.Errors)
	}

	return result, nil
}

// step runs one pipeline stage, timing it and publishing progress
func (p *Pipeline) step(result *Result, name string, onProgress ProgressFunc, fn func() error) {
	emit := func(status, detail string) {
		if onProgress != nil {
			onProgress(ProgressEvent{
				SessionID: result.SessionID,
				Step:      name,
				Status:    status,
				Detail:    detail,
			})
		}
	}

	emit("started", "")
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.Get().PipelineStepDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	status := StepStatus{
		Name:       name,
		Status:     "completed",
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		status.Status = "failed"
		status.Error = err.Error()
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
		logger.Log.Error("pipeline step failed",
			logger.WithStep(name),
			zap.Error(err),
		)
		emit("failed", err.Error())
	} else {
		emit("completed", "")
	}

	result.Steps = append(result.Steps, status)
}
