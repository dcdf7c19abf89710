package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the identity record owned by the auth service. Application
// data hangs off Profile, which mirrors this row 1:1.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	// RawMetadata is the signup metadata bag exactly as submitted
	// (role, names in either spelling, specialty...). Normalization
	// happens at provisioning time, not here.
	RawMetadata datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
