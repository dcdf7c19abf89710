package vitals

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidReading  = errors.New("metric_type, value and unit are required")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record stores one manual reading for the patient owned by the
// given profile.
func (s *Service) Record(patientProfileID uuid.UUID, metricType string, value float64, unit string, recordedAt time.Time) (*HealthMetric, error) {
	if metricType == "" || unit == "" {
		return nil, ErrInvalidReading
	}
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	metric := HealthMetric{
		PatientID:  patient.ID,
		MetricType: metricType,
		Value:      value,
		Unit:       unit,
		RecordedAt: recordedAt,
		Source:     SourceManual,
	}
	if err := s.db.Create(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// List returns a patient's readings for one metric type inside a time
// range, oldest first.
func (s *Service) List(patientProfileID uuid.UUID, metricType string, from, to time.Time) ([]HealthMetric, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}

	query := s.db.Where("patient_id = ?", patient.ID)
	if metricType != "" {
		query = query.Where("metric_type = ?", metricType)
	}
	if !from.IsZero() {
		query = query.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("recorded_at <= ?", to)
	}

	var metrics []HealthMetric
	err := query.Order("recorded_at ASC").Find(&metrics).Error
	return metrics, err
}

// Generate persists a synthetic daily series for a patient (by patient
// id, not profile id — this is an admin/demo surface). Existing
// synthetic rows for the metric are replaced so re-runs don't pile up.
func (s *Service) Generate(patientID uuid.UUID, metricType string, days int) (int, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "id = ?", patientID).Error; err != nil {
		return 0, ErrPatientNotFound
	}
	if days <= 0 {
		days = 30
	}

	readings := GenerateSeries(metricType, days, time.Now(), SeedFor(patientID, metricType))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ? AND metric_type = ? AND source = ?",
			patientID, metricType, SourceSynthetic).Delete(&HealthMetric{}).Error; err != nil {
			return err
		}
		for _, r := range readings {
			metric := HealthMetric{
				PatientID:  patientID,
				MetricType: metricType,
				Value:      r.Value,
				Unit:       r.Unit,
				RecordedAt: r.RecordedAt,
				Source:     SourceSynthetic,
			}
			if err := tx.Create(&metric).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(readings), nil
}
