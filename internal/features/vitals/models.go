package vitals

import (
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// Metric sources.
const (
	SourceManual    = "manual"
	SourceSynthetic = "synthetic"
)

// Known metric types. Readings of other types are accepted; these get
// generator support.
const (
	MetricWeight    = "weight"
	MetricHeartRate = "heart_rate"
	MetricSteps     = "steps"
)

// HealthMetric is one reading in a patient's time series.
type HealthMetric struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index:idx_metric_patient_type" json:"patient_id"`
	MetricType string    `gorm:"not null;size:50;index:idx_metric_patient_type" json:"metric_type"`
	Value      float64   `gorm:"not null" json:"value"`
	Unit       string    `gorm:"not null;size:20" json:"unit"`
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
	Source     string    `gorm:"not null;size:20;default:'manual'" json:"source"`
	CreatedAt  time.Time `json:"created_at"`

	Patient models.Patient `gorm:"foreignKey:PatientID" json:"-"`
}
