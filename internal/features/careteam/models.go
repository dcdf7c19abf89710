package careteam

import (
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// PatientAssignment links a patient to a provider for one treatment
// program. At most one active assignment per (patient, treatment).
type PatientAssignment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"provider_id"`
	TreatmentType string     `gorm:"not null;size:50;index" json:"treatment_type"`
	Active        bool       `gorm:"not null;default:true;index" json:"active"`
	AssignedAt    time.Time  `gorm:"not null" json:"assigned_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Patient  models.Patient  `gorm:"foreignKey:PatientID" json:"-"`
	Provider models.Provider `gorm:"foreignKey:ProviderID" json:"-"`
}
