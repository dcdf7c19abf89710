package scheduling

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"github.com/ryanjameskelley/joinomu-sub002/internal/services"
)

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
		&models.ProvisioningFailure{}, &Appointment{}, &AvailabilityOverride{},
	))
	return db
}

// provisionPair creates a patient and a provider through the real
// provisioning path so the provider carries the default weekly
// schedule the booking test books against.
func provisionPair(t *testing.T, db *gorm.DB) (models.Patient, models.Provider) {
	t.Helper()
	cat, err := catalog.LoadFromFile("definitely-missing.json")
	require.NoError(t, err)
	prov := services.NewProvisioningService(db, cat, services.PolicyAtomic)

	create := func(email, metadata string) models.User {
		user := models.User{Email: email, Password: "x", RawMetadata: datatypes.JSON(metadata)}
		require.NoError(t, db.Create(&user).Error)
		t.Cleanup(func() {
			db.Unscoped().Where("email = ?", email).Delete(&models.User{})
			db.Where("email = ?", email).Delete(&models.Profile{})
		})
		require.NoError(t, prov.Provision(&user))
		return user
	}

	patientUser := create("booking-patient@test.local", `{"first_name":"Amy"}`)
	providerUser := create("booking-provider@test.local", `{"role":"provider","first_name":"Sarah"}`)

	var patient models.Patient
	require.NoError(t, db.First(&patient, "profile_id = ?", patientUser.ID).Error)
	var provider models.Provider
	require.NoError(t, db.First(&provider, "profile_id = ?", providerUser.ID).Error)
	return patient, provider
}

// nextWeekday returns the next date (at least tomorrow) that falls on
// a default schedule day.
func nextWeekday() time.Time {
	d := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestBookRejectsTakenSlot(t *testing.T) {
	db := testDB(t)
	patient, provider := provisionPair(t, db)
	svc := NewService(db)
	date := nextWeekday()

	t.Cleanup(func() {
		db.Where("provider_id = ?", provider.ID).Delete(&Appointment{})
	})

	first, err := svc.Book(patient.ProfileID, BookRequest{
		ProviderID: provider.ID, Date: date,
		StartTime: "09:00:00", TreatmentType: "weight_loss",
	})
	require.NoError(t, err)

	_, err = svc.Book(patient.ProfileID, BookRequest{
		ProviderID: provider.ID, Date: date,
		StartTime: "09:00:00", TreatmentType: "weight_loss",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The slot is guarded at the schema level too, so a writer that
	// never consulted OpenSlots cannot double-book it.
	dup := Appointment{
		PatientID: patient.ID, ProviderID: provider.ID, Date: date,
		StartTime: "09:00:00", EndTime: "09:30:00",
		TreatmentType: "weight_loss", Status: StatusScheduled,
	}
	assert.Error(t, db.Create(&dup).Error)

	// Cancelling releases the slot for rebooking.
	require.NoError(t, svc.Cancel(patient.ProfileID, first.ID))
	_, err = svc.Book(patient.ProfileID, BookRequest{
		ProviderID: provider.ID, Date: date,
		StartTime: "09:00:00", TreatmentType: "weight_loss",
	})
	assert.NoError(t, err)
}
