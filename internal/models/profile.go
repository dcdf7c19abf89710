package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles.
const (
	RolePatient  = "patient"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Profile is the application-owned mirror of an identity record.
// The primary key is the identity id, which enforces at-most-once
// provisioning per identity.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;index" json:"email"`
	FirstName string    `gorm:"not null;size:100" json:"first_name"`
	LastName  string    `gorm:"not null;size:100" json:"last_name"`
	Role      string    `gorm:"not null;size:20;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:ID;references:ID" json:"-"`
}

// Patient is the role record for profiles with Role == "patient".
type Patient struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	Phone              string    `gorm:"size:30" json:"phone"`
	HasCompletedIntake bool      `gorm:"not null;default:false" json:"has_completed_intake"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`
}

// Provider is the role record for profiles with Role == "provider".
type Provider struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	Specialty     string    `gorm:"not null;size:100" json:"specialty"`
	LicenseNumber string    `gorm:"size:100" json:"license_number"`
	Phone         string    `gorm:"size:30" json:"phone"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Profile   Profile            `gorm:"foreignKey:ProfileID" json:"-"`
	Schedules []ProviderSchedule `gorm:"foreignKey:ProviderID" json:"schedules,omitempty"`
}

// Admin is the role record for profiles with Role == "admin".
type Admin struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	PermissionLevel string    `gorm:"not null;size:20;default:'full'" json:"permission_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`
}
