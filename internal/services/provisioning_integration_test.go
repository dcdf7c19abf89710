package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// testDB opens the database named by TEST_DATABASE_URL, skipping the
// test when it is unset so the suite runs without infrastructure.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Patient{},
		&models.Provider{}, &models.Admin{}, &models.ProviderSchedule{},
		&models.ProvisioningFailure{},
	))
	return db
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadFromFile("definitely-missing.json")
	require.NoError(t, err)
	return cat
}

func createIdentity(t *testing.T, db *gorm.DB, email, metadata string) *models.User {
	t.Helper()
	user := models.User{
		Email:       email,
		Password:    "x",
		RawMetadata: datatypes.JSON(metadata),
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() {
		db.Unscoped().Where("email = ?", email).Delete(&models.User{})
		db.Where("email = ?", email).Delete(&models.Profile{})
	})
	return &user
}

func TestProvisionPatient(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyAtomic)

	user := createIdentity(t, db, "patient-provision@test.local", `{"first_name":"Amy","last_name":"Walker"}`)
	require.NoError(t, svc.Provision(user))

	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", user.ID).Error)
	assert.Equal(t, models.RolePatient, profile.Role)
	assert.Equal(t, "Amy", profile.FirstName)

	var count int64
	db.Model(&models.Patient{}).Where("profile_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.Provider{}).Where("profile_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	assert.True(t, svc.IsProvisioned(user.ID))
}

func TestProvisionProviderGetsDefaultWeek(t *testing.T) {
	db := testDB(t)
	cat := testCatalog(t)
	svc := NewProvisioningService(db, cat, PolicyAtomic)

	user := createIdentity(t, db, "provider-provision@test.local",
		`{"role":"provider","first_name":"Sarah","specialty":"Endocrinology"}`)
	require.NoError(t, svc.Provision(user))

	var provider models.Provider
	require.NoError(t, db.First(&provider, "profile_id = ?", user.ID).Error)
	assert.Equal(t, "Endocrinology", provider.Specialty)
	assert.True(t, provider.Active)

	var schedules []models.ProviderSchedule
	require.NoError(t, db.Where("provider_id = ?", provider.ID).Find(&schedules).Error)
	assert.Len(t, schedules, len(cat.DefaultWeek().Days))
	for _, s := range schedules {
		assert.Equal(t, "09:00:00", s.StartTime)
		assert.Equal(t, "17:00:00", s.EndTime)
	}
}

func TestProvisionIsIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyAtomic)

	user := createIdentity(t, db, "idempotent-provision@test.local", `{"role":"provider"}`)
	require.NoError(t, svc.Provision(user))
	require.NoError(t, svc.Provision(user))
	require.NoError(t, svc.Reprovision(user.ID))

	var provider models.Provider
	require.NoError(t, db.First(&provider, "profile_id = ?", user.ID).Error)

	var schedules int64
	db.Model(&models.ProviderSchedule{}).Where("provider_id = ?", provider.ID).Count(&schedules)
	assert.EqualValues(t, 5, schedules)

	var profiles int64
	db.Model(&models.Profile{}).Where("id = ?", user.ID).Count(&profiles)
	assert.EqualValues(t, 1, profiles)
}

func TestReprovisionMissingIdentity(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyAtomic)

	user := createIdentity(t, db, "gone-provision@test.local", `{}`)
	id := user.ID
	require.NoError(t, db.Unscoped().Delete(&models.User{}, "id = ?", id).Error)
	require.NoError(t, db.Where("id = ?", id).Delete(&models.Profile{}).Error)

	err := svc.Reprovision(id)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestProvisioningStatus(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyAtomic)

	user := createIdentity(t, db, "status-provision@test.local", `{}`)

	status, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, status.Provisioned)

	require.NoError(t, svc.Provision(user))

	status, err = svc.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, status.Provisioned)
	assert.False(t, status.Pending)
}
