package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/auth"
	"github.com/ArnavKarwa07/Automated-EDA/internal/cache"
	"github.com/ArnavKarwa07/Automated-EDA/internal/config"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/email"
	"github.com/ArnavKarwa07/Automated-EDA/internal/handlers"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/ArnavKarwa07/Automated-EDA/internal/middleware"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.Load()

	if err := logger.Initialize(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FILE", "server.log")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Automated EDA server starting ===")

	metrics.Initialize()

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; profiling just skips the cache without it
	if host := config.GetEnv("REDIS_HOST", ""); host != "" {
		redisClient, err := cache.NewRedisClient(host, config.GetEnv("REDIS_PORT", "6379"), config.GetEnv("REDIS_PASSWORD", ""))
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing without profile cache", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	// S3 when a bucket is configured, local disk otherwise
	var store storage.Store
	if bucket := config.GetEnv("AWS_BUCKET", ""); bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), config.GetEnv("AWS_REGION", "us-east-1"), bucket)
		if err != nil {
			logger.Log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		store = s3Store
	} else {
		localStore, err := storage.NewLocalStore(config.GetEnv("STORAGE_DIR", "data"))
		if err != nil {
			logger.Log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		store = localStore
		logger.Log.Info("Using local disk storage")
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService(jwtSecret)

	h := handlers.NewHandlers(authService, store)

	if fromEmail := config.GetEnv("SES_FROM_EMAIL", ""); fromEmail != "" {
		mailer, err := email.NewEmailService(
			config.GetEnv("AWS_REGION", "us-east-1"),
			fromEmail,
			config.GetEnv("SES_FROM_NAME", "Automated EDA"),
			config.GetEnv("APP_BASE_URL", "http://localhost:8787"),
		)
		if err != nil {
			logger.Log.Warn("SES unavailable, password reset emails will only be logged", zap.Error(err))
		} else {
			h.SetMailer(mailer)
		}
	}

	// Gemini is optional; without it every AI path falls back to the
	// deterministic generators
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		provider, err := llm.NewGeminiProvider(context.Background(), apiKey, config.GetEnv("GEMINI_MODEL", ""))
		if err != nil {
			logger.Log.Warn("Gemini unavailable, using deterministic generation only", zap.Error(err))
		} else {
			h.SetLLMProvider(provider)
			logger.Log.Info("LLM provider configured", zap.String("provider", provider.Name()))
		}
	} else {
		logger.Log.Info("No GEMINI_API_KEY set, using deterministic generation only")
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.GetEnv("CORS_ORIGIN", "*")}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	if corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "automated-eda",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit())
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", middleware.RateLimitAuth(), h.Register)
			authGroup.POST("/login", middleware.RateLimitAuth(), h.Login)
			authGroup.POST("/password-reset/request", middleware.RateLimitAuth(), h.PasswordResetRequest)
			authGroup.POST("/password-reset/confirm", middleware.RateLimitAuth(), h.PasswordResetConfirm)
			authGroup.POST("/refresh", h.AuthMiddleware(), h.Refresh)
			authGroup.GET("/me", h.AuthMiddleware(), h.Me)
		}

		datasets := api.Group("/datasets")
		{
			datasets.Use(h.AuthMiddleware())
			datasets.POST("", middleware.RateLimitUpload(), h.UploadDataset)
			datasets.GET("", h.ListDatasets)
			datasets.GET("/:id", h.GetDataset)
			datasets.GET("/:id/info", h.GetDatasetInfo)
			datasets.DELETE("/:id", h.DeleteDataset)
			datasets.POST("/:id/process", h.ProcessDataset)
			datasets.GET("/:id/runs", h.ListRuns)
			datasets.GET("/:id/charts", h.GetCharts)
			datasets.GET("/:id/insights", h.GetInsights)
			datasets.POST("/:id/dashboards", middleware.RateLimitGenerate(), h.CreateDashboard)
		}

		dashboards := api.Group("/dashboards")
		{
			dashboards.Use(h.AuthMiddleware())
			dashboards.GET("", h.ListDashboards)
			dashboards.GET("/:id", h.GetDashboard)
			dashboards.GET("/:id/html", h.GetDashboardHTML)
			dashboards.DELETE("/:id", h.DeleteDashboard)
			dashboards.GET("/:id/progress/ws", h.DashboardProgressWS)
		}
	}

	port := config.GetEnv("PORT", "8787")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Automated EDA backend listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
