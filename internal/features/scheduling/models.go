package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a booked visit inside a provider's availability.
// Times use the same HH:MM:SS encoding as ProviderSchedule. The
// partial unique index on (provider, date, start) makes a scheduled
// slot unbookable twice even under concurrent requests.
type Appointment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID    uuid.UUID `gorm:"type:uuid;not null;index:idx_appt_provider_date;uniqueIndex:idx_appt_slot,where:status = 'scheduled'" json:"provider_id"`
	Date          time.Time `gorm:"type:date;not null;index:idx_appt_provider_date;uniqueIndex:idx_appt_slot,where:status = 'scheduled'" json:"date"`
	StartTime     string    `gorm:"not null;size:8;uniqueIndex:idx_appt_slot,where:status = 'scheduled'" json:"start_time"`
	EndTime       string    `gorm:"not null;size:8" json:"end_time"`
	TreatmentType string    `gorm:"not null;size:50" json:"treatment_type"`
	Status        string    `gorm:"not null;size:20;default:'scheduled';index" json:"status"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Patient  models.Patient  `gorm:"foreignKey:PatientID" json:"-"`
	Provider models.Provider `gorm:"foreignKey:ProviderID" json:"-"`
}

// AvailabilityOverride punches a hole in (or replaces) a provider's
// recurring weekly window for one calendar date.
type AvailabilityOverride struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index:idx_override_provider_date" json:"provider_id"`
	Date       time.Time `gorm:"type:date;not null;index:idx_override_provider_date" json:"date"`
	Available  bool      `gorm:"not null;default:false" json:"available"`
	StartTime  string    `gorm:"size:8" json:"start_time"`
	EndTime    string    `gorm:"size:8" json:"end_time"`
	Reason     string    `gorm:"size:255" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Provider models.Provider `gorm:"foreignKey:ProviderID" json:"-"`
}
