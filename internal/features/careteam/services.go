package careteam

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderInactive = errors.New("provider is not active")
	ErrUnknownTreatment = errors.New("unknown treatment type")
	ErrAlreadyAssigned  = errors.New("patient already assigned to this provider for this treatment")
)

type AssignmentService struct {
	db      *gorm.DB
	catalog *catalog.Catalog
}

func NewAssignmentService(db *gorm.DB, cat *catalog.Catalog) *AssignmentService {
	return &AssignmentService{db: db, catalog: cat}
}

// Assign links a patient to a provider for a treatment, ending any
// previous active assignment for the same (patient, treatment) pair.
func (s *AssignmentService) Assign(patientID, providerID uuid.UUID, treatment string) (*PatientAssignment, error) {
	if !s.catalog.Exists(treatment) {
		return nil, ErrUnknownTreatment
	}

	var patient models.Patient
	if err := s.db.First(&patient, "id = ?", patientID).Error; err != nil {
		return nil, ErrPatientNotFound
	}
	var provider models.Provider
	if err := s.db.First(&provider, "id = ?", providerID).Error; err != nil {
		return nil, ErrProviderNotFound
	}
	if !provider.Active {
		return nil, ErrProviderInactive
	}

	var existing PatientAssignment
	err := s.db.Where("patient_id = ? AND provider_id = ? AND treatment_type = ? AND active = true",
		patientID, providerID, treatment).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAssigned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assignment := PatientAssignment{
		PatientID:     patientID,
		ProviderID:    providerID,
		TreatmentType: treatment,
		Active:        true,
		AssignedAt:    time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&PatientAssignment{}).
			Where("patient_id = ? AND treatment_type = ? AND active = true", patientID, treatment).
			Updates(map[string]interface{}{"active": false, "ended_at": now}).Error; err != nil {
			return err
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Unassign ends an active assignment.
func (s *AssignmentService) Unassign(assignmentID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&PatientAssignment{}).
		Where("id = ? AND active = true", assignmentID).
		Updates(map[string]interface{}{"active": false, "ended_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PanelEntry is one patient on a provider's panel.
type PanelEntry struct {
	Assignment PatientAssignment `json:"assignment"`
	Patient    models.Patient    `json:"patient"`
	Profile    models.Profile    `json:"profile"`
}

// ProviderPanel lists the active patients assigned to the provider
// owned by the given profile.
func (s *AssignmentService) ProviderPanel(providerProfileID uuid.UUID) ([]PanelEntry, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "profile_id = ?", providerProfileID).Error; err != nil {
		return nil, ErrProviderNotFound
	}

	var assignments []PatientAssignment
	if err := s.db.Where("provider_id = ? AND active = true", provider.ID).
		Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	entries := make([]PanelEntry, 0, len(assignments))
	for _, a := range assignments {
		var patient models.Patient
		if err := s.db.First(&patient, "id = ?", a.PatientID).Error; err != nil {
			continue
		}
		var profile models.Profile
		if err := s.db.First(&profile, "id = ?", patient.ProfileID).Error; err != nil {
			continue
		}
		entries = append(entries, PanelEntry{Assignment: a, Patient: patient, Profile: profile})
	}
	return entries, nil
}

// CareTeamEntry is one provider caring for a patient.
type CareTeamEntry struct {
	Assignment PatientAssignment `json:"assignment"`
	Provider   models.Provider   `json:"provider"`
	Profile    models.Profile    `json:"profile"`
}

// PatientCareTeam lists the active providers for the patient owned by
// the given profile.
func (s *AssignmentService) PatientCareTeam(patientProfileID uuid.UUID) ([]CareTeamEntry, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}

	var assignments []PatientAssignment
	if err := s.db.Where("patient_id = ? AND active = true", patient.ID).
		Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	entries := make([]CareTeamEntry, 0, len(assignments))
	for _, a := range assignments {
		var provider models.Provider
		if err := s.db.First(&provider, "id = ?", a.ProviderID).Error; err != nil {
			continue
		}
		var profile models.Profile
		if err := s.db.First(&profile, "id = ?", provider.ProfileID).Error; err != nil {
			continue
		}
		entries = append(entries, CareTeamEntry{Assignment: a, Provider: provider, Profile: profile})
	}
	return entries, nil
}
