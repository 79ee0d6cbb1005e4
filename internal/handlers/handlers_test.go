package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/auth"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HandlersTestSuite exercises the API end to end over httptest
type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	h      *Handlers
	token  string
	userID string
}

// SetupSuite initializes the test database, storage and router
func (suite *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(suite.T().TempDir(), "handlers_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)

	// SQLite cannot take concurrent writers; one connection avoids lock errors
	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
		&models.Dataset{},
		&models.AnalysisRun{},
		&models.Dashboard{},
	)
	require.NoError(suite.T(), err)
	suite.db = db

	store, err := storage.NewLocalStore(suite.T().TempDir())
	require.NoError(suite.T(), err)

	authService := auth.NewService([]byte("test_jwt_secret_key"))
	suite.h = NewHandlers(authService, store)
	suite.router = buildRouter(suite.h)
}

// buildRouter wires the same routes the server mounts, minus rate limits
func buildRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.AuthMiddleware(), h.Refresh)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	authGroup.POST("/password-reset/request", h.PasswordResetRequest)
	authGroup.POST("/password-reset/confirm", h.PasswordResetConfirm)

	datasets := api.Group("/datasets", h.AuthMiddleware())
	datasets.POST("", h.UploadDataset)
	datasets.GET("", h.ListDatasets)
	datasets.GET("/:id", h.GetDataset)
	datasets.GET("/:id/info", h.GetDatasetInfo)
	datasets.DELETE("/:id", h.DeleteDataset)
	datasets.POST("/:id/process", h.ProcessDataset)
	datasets.GET("/:id/runs", h.ListRuns)
	datasets.GET("/:id/charts", h.GetCharts)
	datasets.GET("/:id/insights", h.GetInsights)
	datasets.POST("/:id/dashboards", h.CreateDashboard)

	dashboards := api.Group("/dashboards", h.AuthMiddleware())
	dashboards.GET("", h.ListDashboards)
	dashboards.GET("/:id", h.GetDashboard)
	dashboards.GET("/:id/html", h.GetDashboardHTML)
	dashboards.DELETE("/:id", h.DeleteDashboard)

	return r
}

// TearDownSuite closes the database
func (suite *HandlersTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// SetupTest cleans tables and registers a fresh user
func (suite *HandlersTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM dashboards")
	suite.db.Exec("DELETE FROM analysis_runs")
	suite.db.Exec("DELETE FROM datasets")
	suite.db.Exec("DELETE FROM password_resets")
	suite.db.Exec("DELETE FROM users")

	resp, err := suite.h.authService.Register(auth.RegisterRequest{
		Email:    "analyst@example.com",
		Username: "analyst",
		Password: "password123",
	})
	require.NoError(suite.T(), err)
	suite.token = resp.Token
	suite.userID = resp.User.ID
}

// request performs an authenticated JSON request
func (suite *HandlersTestSuite) request(method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

// uploadCSV performs a multipart dataset upload
func (suite *HandlersTestSuite) uploadCSV(filename, content, tags string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(suite.T(), err)
	_, err = fw.Write([]byte(content))
	require.NoError(suite.T(), err)
	if tags != "" {
		require.NoError(suite.T(), w.WriteField("tags", tags))
	}
	require.NoError(suite.T(), w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

// mustUpload uploads a CSV and returns the created record
func (suite *HandlersTestSuite) mustUpload(content string) models.Dataset {
	rec := suite.uploadCSV("data.csv", content, "")
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	var ds models.Dataset
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &ds))
	return ds
}

func (suite *HandlersTestSuite) TestUploadDataset() {
	t := suite.T()

	rec := suite.uploadCSV("sales.csv", "region,revenue\nnorth,100\nsouth,200\n", "demo,q3")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ds models.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Equal(t, "sales.csv", ds.Filename)
	assert.Equal(t, 2, ds.RowCount)
	assert.Equal(t, 2, ds.ColumnCount)
	assert.Equal(t, "ready", ds.Status)
	assert.Equal(t, models.StringArray{"demo", "q3"}, ds.Tags)
	require.Len(t, ds.Columns, 2)
	assert.Equal(t, "region", ds.Columns[0].Name)
	assert.Equal(t, "categorical", ds.Columns[0].DType)
	assert.Equal(t, "numeric", ds.Columns[1].DType)
}

func (suite *HandlersTestSuite) TestUploadRejectsNonCSV() {
	t := suite.T()

	rec := suite.uploadCSV("report.pdf", "not a csv", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func (suite *HandlersTestSuite) TestUploadRejectsMalformedCSV() {
	t := suite.T()

	// Ragged row
	rec := suite.uploadCSV("bad.csv", "a,b\n1,2\n3\n", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Missing multipart field entirely
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	out := httptest.NewRecorder()
	suite.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func (suite *HandlersTestSuite) TestAuthRequired() {
	t := suite.T()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token via query param works for WebSocket-style clients
	req = httptest.NewRequest(http.MethodGet, "/api/v1/datasets?token="+suite.token, nil)
	rec = httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestListDatasets() {
	t := suite.T()

	suite.mustUpload("a\n1\n")
	suite.mustUpload("b\n2\n")

	rec := suite.request(http.MethodGet, "/api/v1/datasets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Datasets []models.Dataset `json:"datasets"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Total)
	assert.Len(t, body.Datasets, 2)
}

func (suite *HandlersTestSuite) TestGetDatasetPreview() {
	t := suite.T()

	var csv bytes.Buffer
	csv.WriteString("v\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&csv, "%d\n", i)
	}
	ds := suite.mustUpload(csv.String())

	rec := suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Dataset models.Dataset           `json:"dataset"`
		Preview []map[string]interface{} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ds.ID, body.Dataset.ID)
	assert.Len(t, body.Preview, 10)
}

func (suite *HandlersTestSuite) TestGetDatasetNotFound() {
	t := suite.T()

	rec := suite.request(http.MethodGet, "/api/v1/datasets/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestDatasetOwnershipIsolation() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n")

	// A second user cannot see the first user's dataset
	other, err := suite.h.authService.Register(auth.RegisterRequest{
		Email:    "other@example.com",
		Username: "otheruser",
		Password: "password123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/"+ds.ID, nil)
	req.Header.Set("Authorization", "Bearer "+other.Token)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestGetDatasetInfo() {
	t := suite.T()

	ds := suite.mustUpload("v,c\n1,a\n2,b\n3,a\n")

	rec := suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID+"/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Profile struct {
			Info struct {
				Rows int `json:"rows"`
			} `json:"info"`
			Quality struct {
				Score float64 `json:"score"`
			} `json:"quality"`
		} `json:"profile"`
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Profile.Info.Rows)
	assert.Equal(t, 100.0, body.Profile.Quality.Score)
	assert.False(t, body.Cached)
}

func (suite *HandlersTestSuite) TestDeleteDataset() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n")

	rec := suite.request(http.MethodDelete, "/api/v1/datasets/"+ds.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestProcessClean() {
	t := suite.T()

	ds := suite.mustUpload("a,b\n1,x\n1,x\n2,y\n")

	payload := bytes.NewBufferString(`{"operation": "clean"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/process", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Run    models.AnalysisRun     `json:"run"`
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "clean", body.Run.Operation)
	assert.Equal(t, "completed", body.Run.Status)
	assert.Equal(t, 3.0, body.Result["rows_before"])
	assert.Equal(t, 2.0, body.Result["rows_after"])

	// The duplicate row is gone from the stored dataset too
	rec = suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Dataset models.Dataset `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 2, detail.Dataset.RowCount)
}

func (suite *HandlersTestSuite) TestProcessClassify() {
	t := suite.T()

	ds := suite.mustUpload("v,c\n1,a\n2,b\n3,a\n")

	payload := bytes.NewBufferString(`{"operation": "classify"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/process", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Result, "columns")
	assert.Contains(t, body.Result, "recommendations")
}

func (suite *HandlersTestSuite) TestProcessRejectsUnknownOperation() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n")

	payload := bytes.NewBufferString(`{"operation": "explode"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/process", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestProcessAIUnavailableWithoutProvider() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n")

	payload := bytes.NewBufferString(`{"operation": "clean", "mode": "ai"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/process", payload)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func (suite *HandlersTestSuite) TestListRuns() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n2\n")

	payload := bytes.NewBufferString(`{"operation": "classify"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/process", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID+"/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs  []models.AnalysisRun `json:"runs"`
		Total int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "classify", body.Runs[0].Operation)
}

func (suite *HandlersTestSuite) TestGetCharts() {
	t := suite.T()

	ds := suite.mustUpload("v,c\n1,a\n2,b\n3,a\n4,b\n5,a\n")

	rec := suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID+"/charts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Charts []map[string]interface{} `json:"charts"`
		Total  int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body.Total, 0)
	assert.Len(t, body.Charts, body.Total)

	// Kind filter narrows the list
	rec = suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID+"/charts?types=distribution", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered struct {
		Charts []map[string]interface{} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	for _, spec := range filtered.Charts {
		assert.Equal(t, "distribution", spec["kind"])
	}
}

func (suite *HandlersTestSuite) TestGetInsightsFallback() {
	t := suite.T()

	ds := suite.mustUpload("v\n1\n2\n3\n")

	rec := suite.request(http.MethodGet, "/api/v1/datasets/"+ds.ID+"/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Insights struct {
			Source  string `json:"source"`
			Summary string `json:"summary"`
		} `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fallback", body.Insights.Source)
	assert.NotEmpty(t, body.Insights.Summary)
}

func (suite *HandlersTestSuite) TestCreateDashboardLifecycle() {
	t := suite.T()

	ds := suite.mustUpload("v,c\n1,a\n2,b\n3,a\n4,b\n5,a\n")

	payload := bytes.NewBufferString(`{"dashboard_type": "exploratory"}`)
	rec := suite.request(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/dashboards", payload)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created struct {
		Dashboard models.Dashboard `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.DashboardStatusPending, created.Dashboard.Status)
	assert.Equal(t, "data.csv Dashboard", created.Dashboard.Title)

	// Generation runs in the background; poll until it completes
	require.Eventually(t, func() bool {
		var db models.Dashboard
		if err := suite.db.First(&db, "id = ?", created.Dashboard.ID).Error; err != nil {
			return false
		}
		return db.Status == models.DashboardStatusCompleted
	}, 15*time.Second, 100*time.Millisecond, "dashboard generation did not complete")

	rec = suite.request(http.MethodGet, "/api/v1/dashboards/"+created.Dashboard.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Dashboard models.Dashboard `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "deterministic", fetched.Dashboard.Generator)

	// Storage key is internal; confirm it landed on the record
	var stored models.Dashboard
	require.NoError(t, suite.db.First(&stored, "id = ?", created.Dashboard.ID).Error)
	assert.NotEmpty(t, stored.HTMLStorageKey)

	rec = suite.request(http.MethodGet, "/api/v1/dashboards/"+created.Dashboard.ID+"/html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Plotly.newPlot")
}

func (suite *HandlersTestSuite) TestGetDashboardHTMLBeforeCompletion() {
	t := suite.T()

	// A pending record with no stored document yet
	record := models.Dashboard{
		DatasetID:     "some-dataset",
		UserID:        suite.userID,
		Title:         "Pending",
		DashboardType: "exploratory",
		Status:        models.DashboardStatusPending,
	}
	require.NoError(t, suite.db.Create(&record).Error)

	rec := suite.request(http.MethodGet, "/api/v1/dashboards/"+record.ID+"/html", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestListDashboardsFilterByDataset() {
	t := suite.T()

	record := models.Dashboard{
		DatasetID:     "ds-1",
		UserID:        suite.userID,
		Title:         "One",
		DashboardType: "exploratory",
		Status:        models.DashboardStatusCompleted,
	}
	require.NoError(t, suite.db.Create(&record).Error)

	rec := suite.request(http.MethodGet, "/api/v1/dashboards?dataset_id=ds-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)

	rec = suite.request(http.MethodGet, "/api/v1/dashboards?dataset_id=ds-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body.Total)
}

// Run the test suite
func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
