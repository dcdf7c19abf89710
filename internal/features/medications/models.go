package medications

import (
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/datatypes"
)

// Preference / approval statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

// Medication is one catalog entry patients can request.
type Medication struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Category      string         `gorm:"not null;size:50;index" json:"category"`
	TreatmentType string         `gorm:"not null;size:50;index" json:"treatment_type"`
	DosageOptions datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"dosage_options"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// MedicationPreference is a patient's request for a medication at a
// preferred dosage. It waits for a provider decision.
type MedicationPreference struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PatientID       uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	MedicationID    uuid.UUID `gorm:"type:uuid;not null;index" json:"medication_id"`
	PreferredDosage string    `gorm:"not null;size:50" json:"preferred_dosage"`
	Notes           string    `gorm:"type:text" json:"notes"`
	Status          string    `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Patient    models.Patient `gorm:"foreignKey:PatientID" json:"-"`
	Medication Medication     `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
}

// MedicationApproval records a provider's decision on a preference.
type MedicationApproval struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PreferenceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"preference_id"`
	ProviderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	Status       string    `gorm:"not null;size:20" json:"status"`
	Dosage       string    `gorm:"size:50" json:"dosage"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`

	Preference MedicationPreference `gorm:"foreignKey:PreferenceID" json:"-"`
	Provider   models.Provider      `gorm:"foreignKey:ProviderID" json:"-"`
}

// MedicationOrder is created when an approval lands; fulfillment
// updates its status over time.
type MedicationOrder struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ApprovalID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"approval_id"`
	PatientID      uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	MedicationID   uuid.UUID `gorm:"type:uuid;not null" json:"medication_id"`
	Dosage         string    `gorm:"not null;size:50" json:"dosage"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	Status         string    `gorm:"not null;size:20;default:'pending';index" json:"status"`
	TrackingNumber string    `gorm:"size:100" json:"tracking_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Approval   MedicationApproval `gorm:"foreignKey:ApprovalID" json:"-"`
	Patient    models.Patient     `gorm:"foreignKey:PatientID" json:"-"`
	Medication Medication         `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
}
