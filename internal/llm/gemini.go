package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"google.golang.org/genai"
)

// GeminiProvider completes prompts via Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed provider
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Name identifies the provider in logs and stored artifacts
func (g *GeminiProvider) Name() string { return "gemini/" + g.model }

// Complete runs one completion
func (g *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	metrics.Get().LLMCallDuration.WithLabelValues("complete").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Get().LLMCallsTotal.WithLabelValues("complete", "error").Inc()
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		metrics.Get().LLMCallsTotal.WithLabelValues("complete", "empty").Inc()
		return "", ErrEmptyResponse
	}

	metrics.Get().LLMCallsTotal.WithLabelValues("complete", "success").Inc()
	return text, nil
}
