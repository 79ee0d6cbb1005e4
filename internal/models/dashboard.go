package models

import (
	"time"

	"gorm.io/gorm"
)

// Dashboard statuses
const (
	DashboardStatusPending   = "pending"
	DashboardStatusRunning   = "running"
	DashboardStatusCompleted = "completed"
	DashboardStatusFailed    = "failed"
)

// Dashboard represents a generated HTML dashboard and its provenance
type Dashboard struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DatasetID string  `gorm:"not null;index" json:"dataset_id"`
	Dataset   Dataset `gorm:"foreignKey:DatasetID" json:"-"`
	UserID    string  `gorm:"not null;index" json:"user_id"`

	Title         string `gorm:"not null" json:"title"`
	DashboardType string `gorm:"not null" json:"dashboard_type"` // executive, data_quality, exploratory, timeseries

	// Generation context supplied by the caller
	Context  string `gorm:"type:text" json:"context,omitempty"`
	Audience string `json:"audience,omitempty"`

	// Artifacts
	HTMLStorageKey string                   `json:"-"`
	ChartSpecs     []map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"chart_specs,omitempty"`
	Insights       map[string]interface{}   `gorm:"type:jsonb;serializer:json" json:"insights,omitempty"`
	Verification   map[string]interface{}   `gorm:"type:jsonb;serializer:json" json:"verification,omitempty"`

	// Run outcome
	Status     string `gorm:"default:pending;index" json:"status"`
	Generator  string `json:"generator"` // llm, deterministic
	Error      string `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Dashboard) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = generateUUID()
	}
	return nil
}
