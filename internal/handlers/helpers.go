package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

func isCSVFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".csv"
}

// currentUser returns the authenticated user set by AuthMiddleware.
// Writes a 401 and returns false when it is missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		apierrors.Unauthorized("authentication required").Respond(c)
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok {
		apierrors.Unauthorized("authentication required").Respond(c)
		return nil, false
	}
	return user, true
}

// findDataset loads an owner-scoped dataset; admins can read any
func findDataset(c *gin.Context, user *models.User, id string) (*models.Dataset, bool) {
	var ds models.Dataset
	q := database.DB.Where("id = ?", id)
	if !user.IsAdmin {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.First(&ds).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound("dataset").Respond(c)
		} else {
			apierrors.InternalError("failed to load dataset").Respond(c)
		}
		return nil, false
	}
	return &ds, true
}

// findDashboard loads an owner-scoped dashboard; admins can read any
func findDashboard(c *gin.Context, user *models.User, id string) (*models.Dashboard, bool) {
	var db models.Dashboard
	q := database.DB.Where("id = ?", id)
	if !user.IsAdmin {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.First(&db).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound("dashboard").Respond(c)
		} else {
			apierrors.InternalError("failed to load dashboard").Respond(c)
		}
		return nil, false
	}
	return &db, true
}

// loadFrame fetches the stored CSV for a dataset and parses it
func (h *Handlers) loadFrame(ctx context.Context, ds *models.Dataset) (*dataset.Frame, error) {
	raw, err := h.store.Get(ctx, ds.StorageKey)
	if err != nil {
		return nil, err
	}
	return dataset.ReadCSV(bytes.NewReader(raw))
}

// pagination reads page/page_size query params with sane bounds
func pagination(c *gin.Context) (offset, limit int) {
	page := parseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	size := parseInt(c.Query("page_size"), 20)
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

func ok(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}
