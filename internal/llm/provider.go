package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConfigured = errors.New("no llm provider configured")
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

// Request is a single completion request
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
	JSONMode    bool
}

// Provider produces text completions. Implementations must be safe for
// concurrent use.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// CompleteJSON runs a JSON-mode completion and unmarshals the result into
// dest. It retries once on transport or parse failure before giving up.
func CompleteJSON(ctx context.Context, p Provider, req Request, dest interface{}) error {
	if p == nil {
		return ErrNotConfigured
	}
	req.JSONMode = true

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := p.Complete(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}

		cleaned := stripFences(text)
		if cleaned == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
			lastErr = fmt.Errorf("llm response is not valid JSON: %w", err)
			continue
		}
		return nil
	}
	return lastErr
}

// stripFences removes markdown code fences some models wrap JSON in
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
