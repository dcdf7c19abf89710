package medications

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrProviderNotFound   = errors.New("provider not found")
	ErrPreferenceNotFound = errors.New("preference not found")
	ErrAlreadyDecided     = errors.New("preference already decided")
	ErrPendingPreference  = errors.New("a pending preference for this medication already exists")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListCatalog returns active medications, optionally filtered by
// treatment type.
func (s *Service) ListCatalog(treatmentType string) ([]Medication, error) {
	query := s.db.Where("active = true").Order("name ASC")
	if treatmentType != "" {
		query = query.Where("treatment_type = ?", treatmentType)
	}
	var meds []Medication
	err := query.Find(&meds).Error
	return meds, err
}

// SubmitPreference files a patient's medication request.
func (s *Service) SubmitPreference(patientProfileID, medicationID uuid.UUID, dosage, notes string) (*MedicationPreference, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}
	var medication Medication
	if err := s.db.First(&medication, "id = ? AND active = true", medicationID).Error; err != nil {
		return nil, ErrMedicationNotFound
	}

	var existing MedicationPreference
	err := s.db.Where("patient_id = ? AND medication_id = ? AND status = ?",
		patient.ID, medicationID, StatusPending).First(&existing).Error
	if err == nil {
		return nil, ErrPendingPreference
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	preference := MedicationPreference{
		PatientID:       patient.ID,
		MedicationID:    medicationID,
		PreferredDosage: dosage,
		Notes:           notes,
		Status:          StatusPending,
	}
	if err := s.db.Create(&preference).Error; err != nil {
		return nil, err
	}
	return &preference, nil
}

// PatientPreferences lists a patient's requests, newest first.
func (s *Service) PatientPreferences(patientProfileID uuid.UUID) ([]MedicationPreference, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}
	var preferences []MedicationPreference
	err := s.db.Preload("Medication").Where("patient_id = ?", patient.ID).
		Order("created_at DESC").Find(&preferences).Error
	return preferences, err
}

// PendingPreferences lists undecided requests for provider review.
func (s *Service) PendingPreferences() ([]MedicationPreference, error) {
	var preferences []MedicationPreference
	err := s.db.Preload("Medication").Where("status = ?", StatusPending).
		Order("created_at ASC").Find(&preferences).Error
	return preferences, err
}

// Decide records a provider's approval or denial. An approval creates
// the order in the same transaction so a decided preference can never
// lack its order.
func (s *Service) Decide(providerProfileID, preferenceID uuid.UUID, approve bool, dosage, notes string) (*MedicationApproval, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "profile_id = ?", providerProfileID).Error; err != nil {
		return nil, ErrProviderNotFound
	}

	var preference MedicationPreference
	if err := s.db.First(&preference, "id = ?", preferenceID).Error; err != nil {
		return nil, ErrPreferenceNotFound
	}
	if preference.Status != StatusPending {
		return nil, ErrAlreadyDecided
	}

	status := StatusDenied
	if approve {
		status = StatusApproved
	}
	if dosage == "" {
		dosage = preference.PreferredDosage
	}

	approval := MedicationApproval{
		PreferenceID: preferenceID,
		ProviderID:   provider.ID,
		Status:       status,
		Dosage:       dosage,
		Notes:        notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&approval).Error; err != nil {
			return err
		}
		if err := tx.Model(&preference).Update("status", status).Error; err != nil {
			return err
		}
		if !approve {
			return nil
		}
		order := MedicationOrder{
			ApprovalID:   approval.ID,
			PatientID:    preference.PatientID,
			MedicationID: preference.MedicationID,
			Dosage:       dosage,
			Quantity:     1,
			Status:       OrderPending,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// PatientOrders lists a patient's orders, newest first.
func (s *Service) PatientOrders(patientProfileID uuid.UUID) ([]MedicationOrder, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}
	var orders []MedicationOrder
	err := s.db.Preload("Medication").Where("patient_id = ?", patient.ID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}
