package handlers

import (
	"github.com/ArnavKarwa07/Automated-EDA/internal/auth"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dashboard"
	"github.com/ArnavKarwa07/Automated-EDA/internal/email"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	authService *auth.Service
	store       storage.Store
	pipeline    *dashboard.Pipeline
	progress    *dashboard.ProgressHub
	llmProvider llm.Provider
	mailer      email.Sender
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, store storage.Store) *Handlers {
	return &Handlers{
		authService: authService,
		store:       store,
		pipeline:    dashboard.NewPipeline(nil),
		progress:    dashboard.NewProgressHub(),
		mailer:      email.NoopSender{},
	}
}

// SetLLMProvider enables AI-assisted processing and dashboard generation
func (h *Handlers) SetLLMProvider(p llm.Provider) {
	h.llmProvider = p
	h.pipeline = dashboard.NewPipeline(p)
}

// SetMailer sets the transactional mail backend
func (h *Handlers) SetMailer(m email.Sender) {
	h.mailer = m
}
