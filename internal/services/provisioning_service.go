package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Provisioning policies. Atomic wraps all dependent inserts in one
// transaction; best-effort mirrors the legacy behavior of running each
// insert independently, so partial state is possible but every failure
// is still recorded for reconciliation.
const (
	PolicyAtomic     = "atomic"
	PolicyBestEffort = "best-effort"
)

var ErrIdentityNotFound = errors.New("identity not found")

// stageError tags a provisioning error with the stage it failed at.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// ProvisioningService creates the application rows that depend on an
// identity record: one profile, one role record and, for providers,
// the default weekly schedule.
type ProvisioningService struct {
	db      *gorm.DB
	catalog *catalog.Catalog
	policy  string
}

func NewProvisioningService(db *gorm.DB, cat *catalog.Catalog, policy string) *ProvisioningService {
	if policy != PolicyBestEffort {
		policy = PolicyAtomic
	}
	return &ProvisioningService{db: db, catalog: cat, policy: policy}
}

// Provision creates the dependent rows for user. Idempotent: rows that
// already exist are left alone, so re-running after a partial failure
// only fills the gaps. A failure never propagates to the caller as
// fatal — it is logged and recorded as a retryable failure row — but
// it is returned so callers can surface it.
func (s *ProvisioningService) Provision(user *models.User) error {
	meta := NormalizeMetadataJSON(user.RawMetadata)

	var err error
	if s.policy == PolicyBestEffort {
		err = s.provision(s.db, user, meta)
	} else {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			return s.provision(tx, user, meta)
		})
	}

	if err != nil {
		slog.Warn("provisioning failed",
			"user_id", user.ID.String(), "role", meta.Role, "error", err)
		s.recordFailure(user.ID, err)
		return err
	}

	s.resolveFailure(user.ID)
	return nil
}

// Reprovision re-runs provisioning for an identity by id.
func (s *ProvisioningService) Reprovision(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}
	return s.Provision(&user)
}

func (s *ProvisioningService) provision(tx *gorm.DB, user *models.User, meta SignupMetadata) error {
	profile := models.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: meta.FirstName,
		LastName:  meta.LastName,
		Role:      meta.Role,
	}
	if err := tx.Where("id = ?", user.ID).FirstOrCreate(&profile).Error; err != nil {
		return &stageError{stage: models.StageProfile, err: err}
	}

	switch meta.Role {
	case models.RoleProvider:
		provider := models.Provider{
			ProfileID:     user.ID,
			Specialty:     meta.Specialty,
			LicenseNumber: meta.LicenseNumber,
			Phone:         meta.Phone,
			Active:        true,
		}
		if err := tx.Where("profile_id = ?", user.ID).FirstOrCreate(&provider).Error; err != nil {
			return &stageError{stage: models.StageRoleRecord, err: err}
		}
		if err := s.ensureDefaultSchedule(tx, provider.ID); err != nil {
			return &stageError{stage: models.StageSchedule, err: err}
		}

	case models.RoleAdmin:
		admin := models.Admin{
			ProfileID:       user.ID,
			PermissionLevel: "full",
		}
		if err := tx.Where("profile_id = ?", user.ID).FirstOrCreate(&admin).Error; err != nil {
			return &stageError{stage: models.StageRoleRecord, err: err}
		}

	default:
		patient := models.Patient{
			ProfileID:          user.ID,
			Phone:              meta.Phone,
			HasCompletedIntake: false,
		}
		if err := tx.Where("profile_id = ?", user.ID).FirstOrCreate(&patient).Error; err != nil {
			return &stageError{stage: models.StageRoleRecord, err: err}
		}
	}

	return nil
}

// DefaultWeeklySchedule builds the schedule rows a freshly provisioned
// provider receives. Pure: callers persist the result.
func DefaultWeeklySchedule(providerID uuid.UUID, week catalog.DefaultWeek) []models.ProviderSchedule {
	treatments, _ := json.Marshal(week.Treatments)
	rows := make([]models.ProviderSchedule, 0, len(week.Days))
	for _, day := range week.Days {
		rows = append(rows, models.ProviderSchedule{
			ProviderID:     providerID,
			DayOfWeek:      day,
			StartTime:      week.StartTime,
			EndTime:        week.EndTime,
			TreatmentTypes: datatypes.JSON(treatments),
		})
	}
	return rows
}

func (s *ProvisioningService) ensureDefaultSchedule(tx *gorm.DB, providerID uuid.UUID) error {
	for _, row := range DefaultWeeklySchedule(providerID, s.catalog.DefaultWeek()) {
		err := tx.Where(
			"provider_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ?",
			row.ProviderID, row.DayOfWeek, row.StartTime, row.EndTime,
		).FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("schedule %s: %w", row.DayOfWeek, err)
		}
	}
	return nil
}

// Status reports whether an identity has been fully provisioned and,
// if not, the pending failure state. Clients poll this instead of
// sleeping a fixed interval after signup.
func (s *ProvisioningService) Status(userID uuid.UUID) (*dto.ProvisioningStatusResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	resp := &dto.ProvisioningStatusResponse{UserID: userID}
	resp.Provisioned = s.IsProvisioned(userID)

	var failure models.ProvisioningFailure
	err := s.db.Where("user_id = ? AND resolved = false", userID).First(&failure).Error
	if err == nil {
		resp.Pending = true
		resp.Stage = failure.Stage
		resp.LastError = failure.LastError
		resp.Attempts = failure.Attempts
		resp.NextRetryAt = &failure.NextRetryAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return resp, nil
}

// IsProvisioned reports whether the profile and its matching role
// record both exist.
func (s *ProvisioningService) IsProvisioned(userID uuid.UUID) bool {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		return false
	}

	var count int64
	switch profile.Role {
	case models.RoleProvider:
		s.db.Model(&models.Provider{}).Where("profile_id = ?", userID).Count(&count)
	case models.RoleAdmin:
		s.db.Model(&models.Admin{}).Where("profile_id = ?", userID).Count(&count)
	default:
		s.db.Model(&models.Patient{}).Where("profile_id = ?", userID).Count(&count)
	}
	return count > 0
}

func (s *ProvisioningService) recordFailure(userID uuid.UUID, provErr error) {
	stage := "unknown"
	var se *stageError
	if errors.As(provErr, &se) {
		stage = se.stage
	}

	var failure models.ProvisioningFailure
	err := s.db.Where("user_id = ?", userID).First(&failure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		failure = models.ProvisioningFailure{
			UserID:      userID,
			Stage:       stage,
			LastError:   provErr.Error(),
			Attempts:    1,
			NextRetryAt: time.Now().Add(NextRetryDelay(1)),
		}
		if err := s.db.Create(&failure).Error; err != nil {
			slog.Error("failed to record provisioning failure",
				"user_id", userID.String(), "error", err)
		}
		return
	}
	if err != nil {
		slog.Error("failed to load provisioning failure",
			"user_id", userID.String(), "error", err)
		return
	}

	updates := map[string]interface{}{
		"stage":         stage,
		"last_error":    provErr.Error(),
		"attempts":      failure.Attempts + 1,
		"next_retry_at": time.Now().Add(NextRetryDelay(failure.Attempts + 1)),
		"resolved":      false,
	}
	if err := s.db.Model(&failure).Updates(updates).Error; err != nil {
		slog.Error("failed to update provisioning failure",
			"user_id", userID.String(), "error", err)
	}
}

func (s *ProvisioningService) resolveFailure(userID uuid.UUID) {
	s.db.Model(&models.ProvisioningFailure{}).
		Where("user_id = ? AND resolved = false", userID).
		Update("resolved", true)
}

// NextRetryDelay returns the backoff before retry number attempt:
// 5s, 10s, 20s... capped at 10 minutes.
func NextRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := 5 * time.Second
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= 10*time.Minute {
			return 10 * time.Minute
		}
	}
	return delay
}
