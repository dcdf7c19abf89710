package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProviderNotFound    = errors.New("provider not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrSlotUnavailable     = errors.New("requested slot is not available")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// OpenSlots computes the bookable slots for a provider on a date:
// recurring weekly windows, minus overrides, minus booked appointments.
func (s *Service) OpenSlots(providerID uuid.UUID, date time.Time) ([]Slot, error) {
	return s.openSlots(s.db, providerID, date)
}

func (s *Service) openSlots(db *gorm.DB, providerID uuid.UUID, date time.Time) ([]Slot, error) {
	var provider models.Provider
	if err := db.First(&provider, "id = ?", providerID).Error; err != nil {
		return nil, ErrProviderNotFound
	}

	date = date.Truncate(24 * time.Hour)
	windows, err := s.availabilityWindows(db, providerID, date)
	if err != nil {
		return nil, err
	}

	var appointments []Appointment
	err = db.Where("provider_id = ? AND date = ? AND status = ?", providerID, date, StatusScheduled).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	booked := make([]Window, 0, len(appointments))
	for _, a := range appointments {
		booked = append(booked, Window{Start: ParseClock(a.StartTime), End: ParseClock(a.EndTime)})
	}

	var slots []Slot
	for _, w := range windows {
		slots = append(slots, SplitWindow(w, SlotMinutes)...)
	}
	return FilterBooked(slots, booked), nil
}

func (s *Service) availabilityWindows(db *gorm.DB, providerID uuid.UUID, date time.Time) ([]Window, error) {
	var override AvailabilityOverride
	err := db.Where("provider_id = ? AND date = ?", providerID, date).First(&override).Error
	if err == nil {
		if !override.Available {
			return nil, nil
		}
		return []Window{{Start: ParseClock(override.StartTime), End: ParseClock(override.EndTime)}}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var schedules []models.ProviderSchedule
	err = db.Where("provider_id = ? AND day_of_week = ?", providerID, date.Weekday().String()).
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(schedules))
	for _, sched := range schedules {
		windows = append(windows, Window{Start: ParseClock(sched.StartTime), End: ParseClock(sched.EndTime)})
	}
	return windows, nil
}

// BookRequest carries a booking attempt.
type BookRequest struct {
	ProviderID    uuid.UUID
	Date          time.Time
	StartTime     string
	TreatmentType string
	Notes         string
}

// Book creates an appointment for the patient owned by the given
// profile, rejecting slots outside availability or already taken.
func (s *Service) Book(patientProfileID uuid.UUID, req BookRequest) (*Appointment, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}

	date := req.Date.Truncate(24 * time.Hour)

	var appointment Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		open, err := s.openSlots(tx, req.ProviderID, date)
		if err != nil {
			return err
		}

		var slot *Slot
		for i := range open {
			if open[i].StartTime == req.StartTime {
				slot = &open[i]
				break
			}
		}
		if slot == nil {
			return ErrSlotUnavailable
		}

		appointment = Appointment{
			PatientID:     patient.ID,
			ProviderID:    req.ProviderID,
			Date:          date,
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			TreatmentType: req.TreatmentType,
			Status:        StatusScheduled,
			Notes:         req.Notes,
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		// A concurrent booking that slipped past the slot check lands
		// on the partial unique index instead.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	return &appointment, nil
}

// Cancel marks a scheduled appointment cancelled. Only the owning
// patient may cancel through this path.
func (s *Service) Cancel(patientProfileID, appointmentID uuid.UUID) error {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return ErrPatientNotFound
	}

	result := s.db.Model(&Appointment{}).
		Where("id = ? AND patient_id = ? AND status = ?", appointmentID, patient.ID, StatusScheduled).
		Update("status", StatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// PatientAppointments lists appointments for the patient owned by the
// given profile, newest first.
func (s *Service) PatientAppointments(patientProfileID uuid.UUID) ([]Appointment, error) {
	var patient models.Patient
	if err := s.db.First(&patient, "profile_id = ?", patientProfileID).Error; err != nil {
		return nil, ErrPatientNotFound
	}

	var appointments []Appointment
	err := s.db.Where("patient_id = ?", patient.ID).
		Order("date DESC, start_time DESC").Find(&appointments).Error
	return appointments, err
}

// ProviderAppointments lists a provider's appointments on a date.
func (s *Service) ProviderAppointments(providerProfileID uuid.UUID, date time.Time) ([]Appointment, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "profile_id = ?", providerProfileID).Error; err != nil {
		return nil, ErrProviderNotFound
	}

	var appointments []Appointment
	err := s.db.Where("provider_id = ? AND date = ? AND status = ?",
		provider.ID, date.Truncate(24*time.Hour), StatusScheduled).
		Order("start_time ASC").Find(&appointments).Error
	return appointments, err
}

// SetOverride creates or replaces the availability override for
// (provider, date).
func (s *Service) SetOverride(providerID uuid.UUID, date time.Time, available bool, start, end, reason string) (*AvailabilityOverride, error) {
	var provider models.Provider
	if err := s.db.First(&provider, "id = ?", providerID).Error; err != nil {
		return nil, ErrProviderNotFound
	}

	date = date.Truncate(24 * time.Hour)

	var override AvailabilityOverride
	err := s.db.Where("provider_id = ? AND date = ?", providerID, date).First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		override = AvailabilityOverride{
			ProviderID: providerID,
			Date:       date,
			Available:  available,
			StartTime:  start,
			EndTime:    end,
			Reason:     reason,
		}
		if err := s.db.Create(&override).Error; err != nil {
			return nil, err
		}
		return &override, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"available":  available,
		"start_time": start,
		"end_time":   end,
		"reason":     reason,
	}
	if err := s.db.Model(&override).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &override, nil
}
