package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

func TestNormalizeMetadataSnakeCase(t *testing.T) {
	meta := NormalizeMetadata(map[string]interface{}{
		"role":           "provider",
		"first_name":     "Sarah",
		"last_name":      "Chen",
		"specialty":      "Endocrinology",
		"license_number": "MD-44821",
		"phone":          "+1-555-0101",
	})

	assert.Equal(t, models.RoleProvider, meta.Role)
	assert.Equal(t, "Sarah", meta.FirstName)
	assert.Equal(t, "Chen", meta.LastName)
	assert.Equal(t, "Endocrinology", meta.Specialty)
	assert.Equal(t, "MD-44821", meta.LicenseNumber)
	assert.Equal(t, "+1-555-0101", meta.Phone)
}

func TestNormalizeMetadataCamelCaseFallback(t *testing.T) {
	meta := NormalizeMetadata(map[string]interface{}{
		"role":          "provider",
		"firstName":     "David",
		"lastName":      "Okafor",
		"licenseNumber": "MD-90132",
	})

	assert.Equal(t, "David", meta.FirstName)
	assert.Equal(t, "Okafor", meta.LastName)
	assert.Equal(t, "MD-90132", meta.LicenseNumber)
}

func TestNormalizeMetadataSnakeCaseWinsOverCamel(t *testing.T) {
	meta := NormalizeMetadata(map[string]interface{}{
		"first_name": "Amy",
		"firstName":  "Amelia",
	})
	assert.Equal(t, "Amy", meta.FirstName)
}

func TestNormalizeMetadataDefaults(t *testing.T) {
	meta := NormalizeMetadata(nil)

	assert.Equal(t, models.RolePatient, meta.Role)
	assert.Equal(t, DefaultFirstName, meta.FirstName)
	assert.Equal(t, DefaultLastName, meta.LastName)
	assert.Equal(t, DefaultSpecialty, meta.Specialty)
	assert.Empty(t, meta.Phone)
	assert.Empty(t, meta.LicenseNumber)
}

func TestNormalizeMetadataUnknownRoleBecomesPatient(t *testing.T) {
	for _, role := range []string{"superuser", "PROVIDER", "", "nurse"} {
		meta := NormalizeMetadata(map[string]interface{}{"role": role})
		assert.Equal(t, models.RolePatient, meta.Role, "role %q", role)
	}
}

func TestNormalizeMetadataIgnoresNonStringValues(t *testing.T) {
	meta := NormalizeMetadata(map[string]interface{}{
		"first_name": 42,
		"last_name":  true,
		"role":       []string{"admin"},
	})

	assert.Equal(t, models.RolePatient, meta.Role)
	assert.Equal(t, DefaultFirstName, meta.FirstName)
	assert.Equal(t, DefaultLastName, meta.LastName)
}

func TestNormalizeMetadataJSON(t *testing.T) {
	meta := NormalizeMetadataJSON([]byte(`{"role":"admin","first_name":"Olive"}`))
	assert.Equal(t, models.RoleAdmin, meta.Role)
	assert.Equal(t, "Olive", meta.FirstName)

	meta = NormalizeMetadataJSON([]byte("not json"))
	assert.Equal(t, models.RolePatient, meta.Role)
	assert.Equal(t, DefaultFirstName, meta.FirstName)

	meta = NormalizeMetadataJSON(nil)
	assert.Equal(t, models.RolePatient, meta.Role)
}
