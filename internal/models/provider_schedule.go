package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProviderSchedule is one recurring weekly availability window.
// (provider, day, start, end) is unique so re-provisioning a provider
// never duplicates the default week.
type ProviderSchedule struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_window" json:"provider_id"`
	DayOfWeek  string    `gorm:"not null;size:10;uniqueIndex:idx_schedule_window" json:"day_of_week"`
	StartTime  string    `gorm:"not null;size:8;uniqueIndex:idx_schedule_window" json:"start_time"`
	EndTime    string    `gorm:"not null;size:8;uniqueIndex:idx_schedule_window" json:"end_time"`
	// TreatmentTypes is a JSON array of treatment keys served in this window.
	TreatmentTypes datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"treatment_types"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
