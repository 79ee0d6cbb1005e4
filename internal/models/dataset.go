package models

import (
	"time"

	"gorm.io/gorm"
)

// ColumnMeta is the stored per-column summary captured at upload time
type ColumnMeta struct {
	Name         string `json:"name"`
	DType        string `json:"dtype"`
	MissingCount int    `json:"missing_count"`
	UniqueCount  int    `json:"unique_count"`
}

// Dataset represents an uploaded CSV and its parsed shape
type Dataset struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// File data
	Filename   string `gorm:"not null" json:"filename"`
	StorageKey string `gorm:"not null" json:"-"`
	FileSize   int64  `json:"file_size"`

	// Parsed shape
	RowCount    int          `json:"row_count"`
	ColumnCount int          `json:"column_count"`
	Columns     []ColumnMeta `gorm:"type:jsonb;serializer:json" json:"columns"`

	Tags StringArray `gorm:"type:text[]" json:"tags"`

	// Status
	Status string `gorm:"default:ready" json:"status"` // ready, processing, failed

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = generateUUID()
	}
	return nil
}

// AnalysisRun records one clean/transform/classify operation on a dataset
type AnalysisRun struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DatasetID string  `gorm:"not null;index" json:"dataset_id"`
	Dataset   Dataset `gorm:"foreignKey:DatasetID" json:"-"`
	UserID    string  `gorm:"not null;index" json:"user_id"`

	Operation string                 `gorm:"not null" json:"operation"` // clean, transform, classify
	Mode      string                 `gorm:"default:manual" json:"mode"`
	Options   map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"options"`
	Result    map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"result"`

	DurationMs int64  `json:"duration_ms"`
	Status     string `gorm:"default:completed" json:"status"` // completed, failed
	Error      string `gorm:"type:text" json:"error,omitempty"`

	// GORM fields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AnalysisRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	return nil
}
