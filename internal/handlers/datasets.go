package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/cache"
	"github.com/ArnavKarwa07/Automated-EDA/internal/config"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadDataset accepts a multipart CSV upload, parses it and stores both
// the blob and its metadata
// POST /api/v1/datasets
func (h *Handlers) UploadDataset(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest("multipart field 'file' is required").Respond(c)
		return
	}

	if !isCSVFile(fileHeader.Filename) {
		metrics.Get().DatasetUploadsTotal.WithLabelValues("rejected").Inc()
		apierrors.ValidationError("file", "only .csv files are accepted").Respond(c)
		return
	}

	maxBytes := config.MaxUploadBytes()
	if fileHeader.Size > maxBytes {
		metrics.Get().DatasetUploadsTotal.WithLabelValues("rejected").Inc()
		apierrors.PayloadTooLarge(fmt.Sprintf("file exceeds %d byte limit", maxBytes)).Respond(c)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError("failed to read upload").Respond(c)
		return
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		apierrors.InternalError("failed to read upload").Respond(c)
		return
	}
	if int64(len(raw)) > maxBytes {
		metrics.Get().DatasetUploadsTotal.WithLabelValues("rejected").Inc()
		apierrors.PayloadTooLarge(fmt.Sprintf("file exceeds %d byte limit", maxBytes)).Respond(c)
		return
	}

	frame, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		metrics.Get().DatasetUploadsTotal.WithLabelValues("invalid").Inc()
		apierrors.ValidationError("file", "could not parse CSV").WithDetails(err.Error()).Respond(c)
		return
	}

	rows, cols := frame.Shape()
	columns := make([]models.ColumnMeta, 0, cols)
	for _, name := range frame.Columns() {
		col := frame.Column(name)
		columns = append(columns, models.ColumnMeta{
			Name:         name,
			DType:        string(col.DType),
			MissingCount: col.MissingCount(),
			UniqueCount:  col.UniqueCount(),
		})
	}

	storageKey := fmt.Sprintf("%s/%s/%s.csv", storage.PrefixUploads, user.ID, uuid.New().String())
	if err := h.store.Put(c.Request.Context(), storageKey, raw, "text/csv"); err != nil {
		logger.ErrorWithFields("failed to store dataset", err)
		apierrors.InternalError("failed to store dataset").Respond(c)
		return
	}

	ds := models.Dataset{
		UserID:      user.ID,
		Filename:    fileHeader.Filename,
		StorageKey:  storageKey,
		FileSize:    int64(len(raw)),
		RowCount:    rows,
		ColumnCount: cols,
		Columns:     columns,
		Tags:        parseTags(c.PostForm("tags")),
		Status:      "ready",
	}
	if err := database.DB.Create(&ds).Error; err != nil {
		logger.ErrorWithFields("failed to save dataset record", err)
		apierrors.InternalError("failed to save dataset").Respond(c)
		return
	}

	metrics.Get().DatasetUploadsTotal.WithLabelValues("success").Inc()
	metrics.Get().DatasetUploadBytes.WithLabelValues("success").Observe(float64(len(raw)))
	logger.Log.Info("dataset uploaded",
		logger.WithUserID(user.ID),
		logger.WithDatasetID(ds.ID),
		zap.Int("rows", rows),
		zap.Int("columns", cols),
	)

	c.JSON(http.StatusCreated, ds)
}

func parseTags(s string) models.StringArray {
	if s == "" {
		return models.StringArray{}
	}
	parts := strings.Split(s, ",")
	out := make(models.StringArray, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ListDatasets returns the caller's datasets with pagination and an
// optional tag filter
// GET /api/v1/datasets
func (h *Handlers) ListDatasets(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	offset, limit := pagination(c)

	q := database.DB.Model(&models.Dataset{}).Order("created_at DESC")
	if !user.IsAdmin {
		q = q.Where("user_id = ?", user.ID)
	}
	if tag := c.Query("tag"); tag != "" {
		if database.IsPostgres() {
			q = q.Where("? = ANY(tags)", tag)
		} else {
			q = q.Where("tags LIKE ?", "%"+tag+"%")
		}
	}

	var total int64
	q.Count(&total)

	var datasets []models.Dataset
	if err := q.Offset(offset).Limit(limit).Find(&datasets).Error; err != nil {
		apierrors.InternalError("failed to list datasets").Respond(c)
		return
	}

	ok(c, gin.H{
		"datasets": datasets,
		"total":    total,
	})
}

// GetDataset returns metadata plus a preview of the first rows
// GET /api/v1/datasets/:id
func (h *Handlers) GetDataset(c *gin.Context) {
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
		logger.ErrorWithFields("failed to load dataset for preview", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	ok(c, gin.H{
		"dataset": ds,
		"preview": frame.Preview(10),
	})
}

// GetDatasetInfo returns the full profile, cached in Redis
// GET /api/v1/datasets/:id/info
func (h *Handlers) GetDatasetInfo(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	var rep profile.Report
	if cache.GetProfile(c.Request.Context(), ds.ID, &rep) {
		ok(c, gin.H{"profile": rep, "cached": true})
		return
	}

	frame, err := h.loadFrame(c.Request.Context(), ds)
	if err != nil {
		logger.ErrorWithFields("failed to load dataset for profiling", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	fresh := profile.Describe(frame)
	cache.SetProfile(c.Request.Context(), ds.ID, fresh)

	ok(c, gin.H{"profile": fresh, "cached": false})
}

// DeleteDataset removes the record, its blob and any cached profile
// DELETE /api/v1/datasets/:id
func (h *Handlers) DeleteDataset(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	if err := database.DB.Delete(ds).Error; err != nil {
		apierrors.InternalError("failed to delete dataset").Respond(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), ds.StorageKey); err != nil {
		logger.WarnWithFields("failed to delete dataset blob", err)
	}
	cache.InvalidateProfile(c.Request.Context(), ds.ID)

	ok(c, gin.H{"message": "dataset deleted"})
}
