package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Provisioning failure stages.
const (
	StageProfile    = "profile"
	StageRoleRecord = "role_record"
	StageSchedule   = "schedule"
)

// ProvisioningFailure is a structured, retryable record of an identity
// whose dependent rows could not be created. The reconciler drains this
// table; a failure is never just a console warning.
type ProvisioningFailure struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Stage       string         `gorm:"not null;size:20" json:"stage"`
	LastError   string         `gorm:"type:text" json:"last_error"`
	Attempts    int            `gorm:"not null;default:0" json:"attempts"`
	NextRetryAt time.Time      `gorm:"not null;index" json:"next_retry_at"`
	Resolved    bool           `gorm:"not null;default:false;index" json:"resolved"`
	Detail      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"detail"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
