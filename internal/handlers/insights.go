package handlers

import (
	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/insights"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/gin-gonic/gin"
)

// GetInsights generates narrative insights for a dataset. Uses the LLM
// when configured, otherwise (or on failure) the deterministic fallback.
// GET /api/v1/datasets/:id/insights
func (h *Handlers) GetInsights(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	frame, err := h.loadFrame(c.Request.Context(), ds)
	if err != nil {
		logger.ErrorWithFields("failed to load dataset for insights", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	dashboardType := charts.NormalizeDashboardType(c.Query("dashboard_type"))
	rep := profile.Describe(frame)
	result := insights.Generate(c.Request.Context(), h.llmProvider, rep, dashboardType)

	ok(c, gin.H{"insights": result})
}
