package services

import (
	"encoding/json"

	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// Defaults applied when signup metadata is missing fields.
const (
	DefaultFirstName = "User"
	DefaultLastName  = "Unknown"
	DefaultSpecialty = "General Practice"
)

// SignupMetadata is the canonical form of the loosely-typed metadata
// bag attached to an identity at signup.
type SignupMetadata struct {
	Role          string
	FirstName     string
	LastName      string
	Phone         string
	Specialty     string
	LicenseNumber string
}

// NormalizeMetadata maps a raw metadata bag to its canonical form.
// Field lookups follow fallback chains across snake_case and camelCase
// spellings; an absent or unrecognized role defaults to patient. Pure:
// no database access, safe to test in isolation.
func NormalizeMetadata(raw map[string]interface{}) SignupMetadata {
	meta := SignupMetadata{
		Role:          models.RolePatient,
		FirstName:     firstString(raw, "first_name", "firstName"),
		LastName:      firstString(raw, "last_name", "lastName"),
		Phone:         firstString(raw, "phone"),
		Specialty:     firstString(raw, "specialty"),
		LicenseNumber: firstString(raw, "license_number", "licenseNumber"),
	}

	switch firstString(raw, "role") {
	case models.RoleProvider:
		meta.Role = models.RoleProvider
	case models.RoleAdmin:
		meta.Role = models.RoleAdmin
	}

	if meta.FirstName == "" {
		meta.FirstName = DefaultFirstName
	}
	if meta.LastName == "" {
		meta.LastName = DefaultLastName
	}
	if meta.Specialty == "" {
		meta.Specialty = DefaultSpecialty
	}
	return meta
}

// NormalizeMetadataJSON decodes a persisted metadata bag and
// normalizes it. Invalid or empty JSON yields pure defaults.
func NormalizeMetadataJSON(data []byte) SignupMetadata {
	var raw map[string]interface{}
	if len(data) > 0 {
		// A decode failure leaves raw nil, which normalizes to defaults.
		_ = json.Unmarshal(data, &raw)
	}
	return NormalizeMetadata(raw)
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
