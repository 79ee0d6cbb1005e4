package handlers

import (
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/gin-gonic/gin"
)

// GetCharts builds Plotly chart specs for a dataset. The optional
// types query param filters by chart kind, comma separated.
// GET /api/v1/datasets/:id/charts
func (h *Handlers) GetCharts(c *gin.Context) {
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
		logger.ErrorWithFields("failed to load dataset for charts", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	rep := profile.Describe(frame)
	specs := charts.Generate(frame, rep)

	if raw := c.Query("types"); raw != "" {
		var kinds []string
		for _, k := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(k); t != "" {
				kinds = append(kinds, t)
			}
		}
		specs = charts.FilterKinds(specs, kinds)
	}

	ok(c, gin.H{
		"charts": specs,
		"total":  len(specs),
	})
}
