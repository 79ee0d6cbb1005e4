package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/cache"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/ArnavKarwa07/Automated-EDA/internal/processor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProcessRequest selects a processing operation and how its options
// are chosen. In ai mode the options field is ignored and an LLM picks
// them from a profile of the data, falling back to defaults.
type ProcessRequest struct {
	Operation string                 `json:"operation" binding:"required,oneof=clean transform classify"`
	Mode      string                 `json:"mode" binding:"omitempty,oneof=manual ai"`
	Options   map[string]interface{} `json:"options"`
}

// ProcessDataset runs clean, transform or classify against a dataset.
// Clean and transform rewrite the stored CSV in place and refresh the
// column metadata; classify is read-only.
// POST /api/v1/datasets/:id/process
func (h *Handlers) ProcessDataset(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid process payload").WithDetails(err.Error()).Respond(c)
		return
	}
	if req.Mode == "" {
		req.Mode = "manual"
	}
	if req.Mode == "ai" && h.llmProvider == nil {
		apierrors.ServiceUnavailable("ai processing").Respond(c)
		return
	}

	frame, err := h.loadFrame(c.Request.Context(), ds)
	if err != nil {
		logger.ErrorWithFields("failed to load dataset for processing", err)
		apierrors.InternalError("failed to load dataset").Respond(c)
		return
	}

	start := time.Now()
	run := models.AnalysisRun{
		DatasetID: ds.ID,
		UserID:    user.ID,
		Operation: req.Operation,
		Mode:      req.Mode,
		Options:   req.Options,
	}

	var (
		out        *dataset.Frame
		result     map[string]interface{}
		processErr error
	)

	switch req.Operation {
	case "clean":
		opts := processor.DefaultCleanOptions()
		if req.Mode == "ai" {
			opts = processor.AICleanOptions(c.Request.Context(), h.llmProvider, frame)
			run.Options = optionsMap(opts)
		} else if req.Options != nil {
			if err := decodeOptions(req.Options, &opts); err != nil {
				apierrors.ValidationError("options", err.Error()).Respond(c)
				return
			}
		}
		var res *processor.CleanResult
		res, processErr = processor.Clean(frame, opts)
		if processErr == nil {
			out = res.Frame
			result = map[string]interface{}{
				"operations":  res.Operations,
				"rows_before": res.RowsBefore,
				"rows_after":  res.RowsAfter,
				"cols_before": res.ColsBefore,
				"cols_after":  res.ColsAfter,
			}
		}

	case "transform":
		opts := processor.DefaultTransformOptions()
		if req.Mode == "ai" {
			opts = processor.AITransformOptions(c.Request.Context(), h.llmProvider, frame)
			run.Options = optionsMap(opts)
		} else if req.Options != nil {
			if err := decodeOptions(req.Options, &opts); err != nil {
				apierrors.ValidationError("options", err.Error()).Respond(c)
				return
			}
		}
		var res *processor.TransformResult
		res, processErr = processor.Transform(frame, opts)
		if processErr == nil {
			out = res.Frame
			result = map[string]interface{}{
				"operations":  res.Operations,
				"new_columns": res.NewColumns,
			}
		}

	case "classify":
		res := processor.Classify(frame)
		result = map[string]interface{}{
			"columns":         res.Columns,
			"recommendations": res.Recommendations,
			"quality":         res.Quality,
		}
	}

	run.DurationMs = time.Since(start).Milliseconds()

	if processErr != nil {
		run.Status = "failed"
		run.Error = processErr.Error()
		if err := database.DB.Create(&run).Error; err != nil {
			logger.ErrorWithFields("failed to record analysis run", err)
		}
		apierrors.InternalError(fmt.Sprintf("%s failed", req.Operation)).WithDetails(processErr.Error()).Respond(c)
		return
	}

	// Clean and transform mutate the data; persist the new CSV and
	// refresh column metadata
	if out != nil {
		if err := h.saveFrame(c, ds, out); err != nil {
			logger.ErrorWithFields("failed to persist processed dataset", err)
			apierrors.InternalError("failed to persist processed dataset").Respond(c)
			return
		}
		cache.InvalidateProfile(c.Request.Context(), ds.ID)
	}

	run.Status = "completed"
	run.Result = result
	if err := database.DB.Create(&run).Error; err != nil {
		logger.ErrorWithFields("failed to record analysis run", err)
	}

	logger.Log.Info("dataset processed",
		logger.WithUserID(user.ID),
		logger.WithDatasetID(ds.ID),
		zap.String("operation", req.Operation),
		zap.String("mode", req.Mode),
		zap.Int64("duration_ms", run.DurationMs),
	)

	ok(c, gin.H{
		"run":    run,
		"result": result,
	})
}

// ListRuns returns a dataset's analysis history
// GET /api/v1/datasets/:id/runs
func (h *Handlers) ListRuns(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ds, found := findDataset(c, user, c.Param("id"))
	if !found {
		return
	}

	offset, limit := pagination(c)

	var total int64
	database.DB.Model(&models.AnalysisRun{}).Where("dataset_id = ?", ds.ID).Count(&total)

	var runs []models.AnalysisRun
	if err := database.DB.
		Where("dataset_id = ?", ds.ID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&runs).Error; err != nil {
		apierrors.InternalError("failed to list analysis runs").Respond(c)
		return
	}

	ok(c, gin.H{
		"runs":  runs,
		"total": total,
	})
}

// saveFrame rewrites the dataset's stored CSV and updates row, column
// and size metadata
func (h *Handlers) saveFrame(c *gin.Context, ds *models.Dataset, f *dataset.Frame) error {
	raw, err := dataset.WriteCSV(f)
	if err != nil {
		return err
	}
	if err := h.store.Put(c.Request.Context(), ds.StorageKey, raw, "text/csv"); err != nil {
		return err
	}

	rows, cols := f.Shape()
	columns := make([]models.ColumnMeta, 0, cols)
	for _, name := range f.Columns() {
		col := f.Column(name)
		columns = append(columns, models.ColumnMeta{
			Name:         name,
			DType:        string(col.DType),
			MissingCount: col.MissingCount(),
			UniqueCount:  col.UniqueCount(),
		})
	}

	return database.DB.Model(ds).Updates(map[string]interface{}{
		"file_size":    int64(len(raw)),
		"row_count":    rows,
		"column_count": cols,
		"columns":      columns,
	}).Error
}

// decodeOptions maps the free-form options object onto a typed options
// struct, rejecting unknown fields
func decodeOptions(raw map[string]interface{}, dest interface{}) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// optionsMap records AI-chosen options on the analysis run
func optionsMap(opts interface{}) map[string]interface{} {
	buf, err := json.Marshal(opts)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil
	}
	return m
}
