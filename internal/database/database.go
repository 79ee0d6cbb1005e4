package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection.
// DATABASE_URL selects Postgres; SQLITE_PATH (or no Postgres config at all)
// falls back to an embedded SQLite file for development.
func Initialize() error {
	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	cfg := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" && os.Getenv("DB_HOST") != "" {
		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			getEnvOrDefault("DB_PORT", "5432"),
			getEnvOrDefault("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnvOrDefault("DB_NAME", "automated_eda"),
			getEnvOrDefault("DB_SSLMODE", "disable"),
		)
	}

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		path := getEnvOrDefault("SQLITE_PATH", "automated_eda.db")
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	log.Println("✅ Database connected successfully")

	return nil
}

// IsPostgres reports whether the active connection is Postgres
func IsPostgres() bool {
	return DB != nil && DB.Dialector.Name() == "postgres"
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if IsPostgres() {
		// gen_random_uuid() defaults need pgcrypto on older clusters
		if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
			log.Printf("Warning: Could not create pgcrypto extension: %v", err)
		}
	}

	err := DB.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
		&models.Dataset{},
		&models.AnalysisRun{},
		&models.Dashboard{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes creates performance indexes
func createIndexes() error {
	if !IsPostgres() {
		return nil
	}

	// User lookups
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))")

	// Dataset listing
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_datasets_user_created ON datasets (user_id, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_datasets_tags ON datasets USING GIN (tags)")

	// Dashboard listing and status polling
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_dashboards_user_created ON dashboards (user_id, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_dashboards_dataset ON dashboards (dataset_id, created_at DESC)")

	// Analysis run history per dataset
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_analysis_runs_dataset_created ON analysis_runs (dataset_id, created_at DESC)")

	// Password reset expiry sweeps
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_password_resets_expires ON password_resets (expires_at)")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
