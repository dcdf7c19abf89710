package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

// hidePatientsTable makes role-record inserts fail by renaming the
// table out from under the service, restoring it when the test ends.
// The returned func restores early so the same test can verify
// recovery.
func hidePatientsTable(t *testing.T, db *gorm.DB) func() {
	t.Helper()
	require.NoError(t, db.Exec("ALTER TABLE patients RENAME TO patients_offline").Error)
	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		require.NoError(t, db.Exec("ALTER TABLE patients_offline RENAME TO patients").Error)
	}
	t.Cleanup(restore)
	return restore
}

func TestProvisionFailureRecordedAndReconciled(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyAtomic)

	user := createIdentity(t, db, "failure-recorded@test.local", `{"first_name":"Faye"}`)
	restore := hidePatientsTable(t, db)

	require.Error(t, svc.Provision(user))

	// The identity row is untouched by the failure.
	var intact models.User
	require.NoError(t, db.First(&intact, "id = ?", user.ID).Error)

	// Atomic policy rolled the profile back with the rest.
	var profiles int64
	db.Model(&models.Profile{}).Where("id = ?", user.ID).Count(&profiles)
	assert.Zero(t, profiles)

	var failure models.ProvisioningFailure
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&failure).Error)
	assert.Equal(t, models.StageRoleRecord, failure.Stage)
	assert.Equal(t, 1, failure.Attempts)
	assert.False(t, failure.Resolved)
	assert.NotEmpty(t, failure.LastError)
	assert.WithinDuration(t, time.Now().Add(NextRetryDelay(1)), failure.NextRetryAt, 5*time.Second)

	// A second failed attempt bumps the counter and pushes the retry out.
	require.Error(t, svc.Provision(user))
	require.NoError(t, db.First(&failure, "id = ?", failure.ID).Error)
	assert.Equal(t, 2, failure.Attempts)
	assert.WithinDuration(t, time.Now().Add(NextRetryDelay(2)), failure.NextRetryAt, 5*time.Second)

	restore()

	// Once the cause is gone and the backoff has elapsed, a sweep
	// finishes the job and resolves the failure row.
	require.NoError(t, db.Model(&failure).Update("next_retry_at", time.Now().Add(-time.Minute)).Error)
	NewReconciler(db, svc, time.Minute, 8).Sweep()

	require.NoError(t, db.First(&failure, "id = ?", failure.ID).Error)
	assert.True(t, failure.Resolved)
	assert.True(t, svc.IsProvisioned(user.ID))
}

func TestProvisionBestEffortKeepsPartialState(t *testing.T) {
	db := testDB(t)
	svc := NewProvisioningService(db, testCatalog(t), PolicyBestEffort)

	user := createIdentity(t, db, "best-effort-partial@test.local", `{"first_name":"Pat"}`)
	restore := hidePatientsTable(t, db)

	require.Error(t, svc.Provision(user))

	// Best-effort commits each step independently, so the profile
	// survives the role-record failure.
	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", user.ID).Error)
	assert.False(t, svc.IsProvisioned(user.ID))

	var failure models.ProvisioningFailure
	require.NoError(t, db.Where("user_id = ? AND resolved = false", user.ID).First(&failure).Error)
	assert.Equal(t, models.StageRoleRecord, failure.Stage)

	restore()

	// Re-running fills only the missing gap.
	require.NoError(t, svc.Provision(user))
	assert.True(t, svc.IsProvisioned(user.ID))

	var unresolved int64
	db.Model(&models.ProvisioningFailure{}).
		Where("user_id = ? AND resolved = false", user.ID).Count(&unresolved)
	assert.Zero(t, unresolved)
}
