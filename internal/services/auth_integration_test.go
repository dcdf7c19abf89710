package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/careteam"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/medications"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/scheduling"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/vitals"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

func testAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthService(db, cfg, NewProvisioningService(db, testCatalog(t), PolicyAtomic))
}

// purgeIdentity hard-deletes an email's identity row, before a test
// for leftovers from prior runs and after it for the soft-deleted row
// DeleteAccount leaves.
func purgeIdentity(t *testing.T, db *gorm.DB, email string) {
	require.NoError(t, db.Unscoped().Where("email = ?", email).Delete(&models.User{}).Error)
	t.Cleanup(func() {
		db.Unscoped().Where("email = ?", email).Delete(&models.User{})
	})
}

func migrateFeatureModels(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, modelList := range [][]interface{}{
		careteam.New().Models(),
		scheduling.New().Models(),
		medications.New().Models(),
		vitals.New().Models(),
	} {
		require.NoError(t, db.AutoMigrate(modelList...))
	}
}

func TestDeleteAccountCascadesFeatureRows(t *testing.T) {
	db := testDB(t)
	migrateFeatureModels(t, db)
	auth := testAuthService(t, db)

	const password = "delete-cascade-pw"
	purgeIdentity(t, db, "cascade-patient@test.local")
	purgeIdentity(t, db, "cascade-provider@test.local")
	patientResp, err := auth.Signup(&dto.SignupRequest{
		Email:    "cascade-patient@test.local",
		Password: password,
		Metadata: map[string]interface{}{"first_name": "Cara"},
	})
	require.NoError(t, err)
	providerResp, err := auth.Signup(&dto.SignupRequest{
		Email:    "cascade-provider@test.local",
		Password: password,
		Metadata: map[string]interface{}{"role": "provider", "first_name": "Sarah"},
	})
	require.NoError(t, err)

	var patient models.Patient
	require.NoError(t, db.First(&patient, "profile_id = ?", patientResp.User.ID).Error)
	var provider models.Provider
	require.NoError(t, db.First(&provider, "profile_id = ?", providerResp.User.ID).Error)

	medication := medications.Medication{Name: "Cascade Test Med", Category: "test", TreatmentType: "weight_loss"}
	require.NoError(t, db.Create(&medication).Error)
	t.Cleanup(func() { db.Delete(&medication) })

	preference := medications.MedicationPreference{
		PatientID: patient.ID, MedicationID: medication.ID,
		PreferredDosage: "1mg", Status: medications.StatusApproved,
	}
	require.NoError(t, db.Create(&preference).Error)
	approval := medications.MedicationApproval{
		PreferenceID: preference.ID, ProviderID: provider.ID,
		Status: medications.StatusApproved, Dosage: "1mg",
	}
	require.NoError(t, db.Create(&approval).Error)
	order := medications.MedicationOrder{
		ApprovalID: approval.ID, PatientID: patient.ID,
		MedicationID: medication.ID, Dosage: "1mg",
	}
	require.NoError(t, db.Create(&order).Error)

	assignment := careteam.PatientAssignment{
		PatientID: patient.ID, ProviderID: provider.ID,
		TreatmentType: "weight_loss", Active: true, AssignedAt: time.Now(),
	}
	require.NoError(t, db.Create(&assignment).Error)

	appointment := scheduling.Appointment{
		PatientID: patient.ID, ProviderID: provider.ID,
		Date:      time.Now().Truncate(24 * time.Hour),
		StartTime: "09:00:00", EndTime: "09:30:00",
		TreatmentType: "weight_loss", Status: scheduling.StatusScheduled,
	}
	require.NoError(t, db.Create(&appointment).Error)

	metric := vitals.HealthMetric{
		PatientID: patient.ID, MetricType: vitals.MetricWeight,
		Value: 200, Unit: "lbs", RecordedAt: time.Now(), Source: vitals.SourceManual,
	}
	require.NoError(t, db.Create(&metric).Error)

	override := scheduling.AvailabilityOverride{
		ProviderID: provider.ID,
		Date:       time.Now().Truncate(24 * time.Hour),
		Available:  false, Reason: "out of office",
	}
	require.NoError(t, db.Create(&override).Error)

	require.NoError(t, auth.DeleteAccount(patientResp.User.ID, password))

	countWhere := func(model interface{}, query string, arg interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(query, arg).Count(&n).Error)
		return n
	}
	assert.Zero(t, countWhere(&medications.MedicationOrder{}, "patient_id = ?", patient.ID))
	assert.Zero(t, countWhere(&medications.MedicationApproval{}, "id = ?", approval.ID))
	assert.Zero(t, countWhere(&medications.MedicationPreference{}, "patient_id = ?", patient.ID))
	assert.Zero(t, countWhere(&careteam.PatientAssignment{}, "patient_id = ?", patient.ID))
	assert.Zero(t, countWhere(&scheduling.Appointment{}, "patient_id = ?", patient.ID))
	assert.Zero(t, countWhere(&vitals.HealthMetric{}, "patient_id = ?", patient.ID))

	// Rows owned purely by the provider are untouched by the patient's
	// deletion.
	assert.EqualValues(t, 1, countWhere(&scheduling.AvailabilityOverride{}, "provider_id = ?", provider.ID))

	require.NoError(t, auth.DeleteAccount(providerResp.User.ID, password))

	assert.Zero(t, countWhere(&scheduling.AvailabilityOverride{}, "provider_id = ?", provider.ID))
	assert.Zero(t, countWhere(&models.ProviderSchedule{}, "provider_id = ?", provider.ID))
	assert.Zero(t, countWhere(&models.Provider{}, "id = ?", provider.ID))
	assert.Zero(t, countWhere(&models.Profile{}, "id = ?", providerResp.User.ID))

	var gone models.User
	err = db.First(&gone, "id = ?", providerResp.User.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := testDB(t)
	migrateFeatureModels(t, db)
	auth := testAuthService(t, db)

	const email = "duplicate-signup@test.local"
	const password = "duplicate-pw-123"
	purgeIdentity(t, db, email)
	resp, err := auth.Signup(&dto.SignupRequest{Email: email, Password: password})
	require.NoError(t, err)

	_, err = auth.Signup(&dto.SignupRequest{Email: email, Password: password})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// A soft-deleted account slips past the lookup but still owns the
	// unique index entry, so this exercises the constraint mapping.
	require.NoError(t, auth.DeleteAccount(resp.User.ID, password))
	_, err = auth.Signup(&dto.SignupRequest{Email: email, Password: password})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
