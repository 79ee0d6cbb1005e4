package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/charts"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dashboard"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pipelineTimeout bounds one background generation run
const pipelineTimeout = 5 * time.Minute

// CreateDashboardRequest starts a dashboard generation run
type CreateDashboardRequest struct {
	Title         string `json:"title"`
	DashboardType string `json:"dashboard_type"`
	Context       string `json:"context"`
	Audience      string `json:"audience"`
}

// CreateDashboard kicks off generation in the background and returns the
// pending record immediately. Progress streams over the WebSocket endpoint.
// POST /api/v1/datasets/:id/dashboards
func (h *Handlers) CreateDashboard(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	var req CreateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid dashboard payload").WithDetails(err.Error()).Respond(c)
		return
	}

	// Parse before accepting the job so a corrupt blob fails fast
	frame, err := h.loadFrame(c.Request.Context(), ds)
	if err != nil {
		logger.ErrorWithFields("failed to load dataset for dashboard", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	if req.Title == "" {
		req.Title = fmt.Sprintf("%s Dashboard", ds.Filename)
	}
	dashboardType := charts.NormalizeDashboardType(req.DashboardType)

	record := models.Dashboard{
		DatasetID:     ds.ID,
		UserID:        user.ID,
		Title:         req.Title,
		DashboardType: dashboardType,
		Context:       req.Context,
		Audience:      req.Audience,
		Status:        models.DashboardStatusPending,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		logger.ErrorWithFields("failed to create dashboard record", err)
		apierrors.InternalError("failed to create dashboard").Respond(c)
		return
	}

	in := dashboard.Input{
		Frame:         frame,
		Title:         req.Title,
		DashboardType: dashboardType,
		Context:       req.Context,
		Audience:      req.Audience,
	}
	go h.runPipeline(record.ID, in)

	c.JSON(http.StatusAccepted, gin.H{"dashboard": record})
}

// runPipeline executes a generation run in the background, publishing
// progress and persisting the outcome. Detached from the request context
// so client disconnects do not cancel the run.
func (h *Handlers) runPipeline(dashboardID string, in dashboard.Input) {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	database.DB.Model(&models.Dashboard{}).
		Where("id = ?", dashboardID).
		Update("status", models.DashboardStatusRunning)

	start := time.Now()
	result, runErr := h.pipeline.Run(ctx, in, func(ev dashboard.ProgressEvent) {
		h.progress.Publish(dashboardID, ev)
	})

	fail := func(msg string) {
		database.DB.Model(&models.Dashboard{}).Where("id = ?", dashboardID).Updates(models.Dashboard{
			Status:     models.DashboardStatusFailed,
			Error:      msg,
			DurationMs: time.Since(start).Milliseconds(),
		})
		h.progress.Finish(dashboardID, "failed")
	}

	if runErr != nil || result == nil {
		msg := "pipeline returned no result"
		if runErr != nil {
			msg = runErr.Error()
		}
		fail(msg)
		logger.Log.Error("dashboard generation failed",
			logger.WithDashboardID(dashboardID),
			zap.Error(runErr),
		)
		return
	}

	htmlKey := fmt.Sprintf("%s/%s.html", storage.PrefixDashboards, dashboardID)
	if err := h.store.Put(ctx, htmlKey, []byte(result.HTML), "text/html; charset=utf-8"); err != nil {
		fail(fmt.Sprintf("failed to store dashboard html: %v", err))
		logger.ErrorWithFields("failed to store dashboard html", err)
		return
	}

	completed := models.Dashboard{
		Status:         models.DashboardStatusCompleted,
		HTMLStorageKey: htmlKey,
		Generator:      result.Generator,
		ChartSpecs:     toJSONList(result.ChartSpecs),
		Insights:       toJSONMap(result.Insights),
		Verification:   toJSONMap(result.Verification),
		DurationMs:     time.Since(start).Milliseconds(),
	}
	if len(result.Errors) > 0 {
		completed.Error = fmt.Sprintf("completed with recovered errors: %v", result.Errors)
	}
	database.DB.Model(&models.Dashboard{}).Where("id = ?", dashboardID).Updates(completed)
	h.progress.Finish(dashboardID, "completed")

	logger.Log.Info("dashboard generated",
		logger.WithDashboardID(dashboardID),
		zap.String("generator", result.Generator),
		zap.Float64("verification_score", result.Verification.Score),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

// ListDashboards returns the caller's dashboards
// GET /api/v1/dashboards
func (h *Handlers) ListDashboards(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	offset, limit := pagination(c)

	q := database.DB.Model(&models.Dashboard{}).Order("created_at DESC")
	if !user.IsAdmin {
		q = q.Where("user_id = ?", user.ID)
	}
	if dsID := c.Query("dataset_id"); dsID != "" {
		q = q.Where("dataset_id = ?", dsID)
	}

	var total int64
	q.Count(&total)

	var dashboards []models.Dashboard
	if err := q.Offset(offset).Limit(limit).Find(&dashboards).Error; err != nil {
		apierrors.InternalError("failed to list dashboards").Respond(c)
		return
	}

	ok(c, gin.H{
		"dashboards": dashboards,
		"total":      total,
	})
}

// GetDashboard returns one dashboard record
// GET /api/v1/dashboards/:id
func (h *Handlers) GetDashboard(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	db, found := findDashboard(c, user, c.Param("id"))
	if !found {
		return
	}
	ok(c, gin.H{"dashboard": db})
}

// GetDashboardHTML serves the generated HTML document
// GET /api/v1/dashboards/:id/html
func (h *Handlers) GetDashboardHTML(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	db, found := findDashboard(c, user, c.Param("id"))
	if !found {
		return
	}

	if db.Status != models.DashboardStatusCompleted || db.HTMLStorageKey == "" {
		apierrors.NotFound("dashboard html").WithDetails("generation has not completed").Respond(c)
		return
	}

	raw, err := h.store.Get(c.Request.Context(), db.HTMLStorageKey)
	if err != nil {
		logger.ErrorWithFields("failed to load dashboard html", err)
		apierrors.InternalError("failed to load dashboard html").Respond(c)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", raw)
}

// DeleteDashboard removes a dashboard record and its stored HTML
// DELETE /api/v1/dashboards/:id
func (h *Handlers) DeleteDashboard(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	db, found := findDashboard(c, user, c.Param("id"))
	if !found {
		return
	}

	if err := database.DB.Delete(db).Error; err != nil {
		apierrors.InternalError("failed to delete dashboard").Respond(c)
		return
	}
	if db.HTMLStorageKey != "" {
		if err := h.store.Delete(c.Request.Context(), db.HTMLStorageKey); err != nil {
			logger.WarnWithFields("failed to delete dashboard html blob", err)
		}
	}

	ok(c, gin.H{"message": "dashboard deleted"})
}

// DashboardProgressWS streams pipeline progress events over a WebSocket.
// Auth comes through AuthMiddleware like every other route; browser
// clients pass the token via the query param supported there.
// GET /api/v1/dashboards/:id/progress/ws
func (h *Handlers) DashboardProgressWS(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	db, found := findDashboard(c, user, c.Param("id"))
	if !found {
		return
	}

	events, unsubscribe := h.progress.Subscribe(db.ID)
	defer unsubscribe()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logger.WarnWithFields("websocket upgrade failed", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	ctx := c.Request.Context()

	// A run that already finished has no more events to stream
	if db.Status == models.DashboardStatusCompleted || db.Status == models.DashboardStatusFailed {
		ev := dashboard.ProgressEvent{Step: "run", Status: db.Status}
		_ = wsjson.Write(ctx, conn, ev)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
			if ev.Step == "run" {
				// Terminal event published by Finish
				return
			}
		}
	}
}

// toJSONList round-trips a typed slice into the jsonb column shape
func toJSONList(v interface{}) []map[string]interface{} {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil
	}
	return out
}

// toJSONMap round-trips a typed struct into the jsonb column shape
func toJSONMap(v interface{}) map[string]interface{} {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil
	}
	return out
}
