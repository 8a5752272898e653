package scheduling

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/directory"
	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Service struct {
	appts    AppointmentRepository
	patients PatientDirectory
	doctors  DoctorDirectory
}

func NewService(appts AppointmentRepository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{appts: appts, patients: patients, doctors: doctors}
}

// Book creates a pending appointment for the calling patient. The slot
// constraint in the database decides conflicts; when two requests race for
// the same (doctor, date, time), exactly one insert survives and the other
// surfaces here as Conflict.
func (s *Service) Book(ctx context.Context, actor auth.Actor, in *BookInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, apperr.Validationf("doctor_id is required")
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, apperr.Validationf("appointment_date must be YYYY-MM-DD")
	}
	if !timePattern.MatchString(in.Time) {
		return nil, apperr.Validationf("appointment_time must be HH:MM")
	}
	// Both sides parsed as UTC midnight so the comparison is calendar-day
	// accurate regardless of server timezone.
	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	if date.Before(today) {
		return nil, apperr.Validationf("appointment_date is in the past")
	}

	patient, err := s.patients.GetByUserID(ctx, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("patient profile not found")
		}
		return nil, apperr.Internal("load patient", err)
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("doctor not found")
		}
		return nil, apperr.Internal("load doctor", err)
	}
	if doctor.Status != directory.StatusActive {
		return nil, apperr.InvalidStatef("doctor is not accepting appointments")
	}

	appt := &Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      in.Time,
		Reason:    in.Reason,
		Status:    StatusPending,
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		if db.IsUniqueViolation(err, "appointments_slot_unique") {
			return nil, apperr.Conflictf("the selected slot is already booked")
		}
		return nil, apperr.Internal("create appointment", err)
	}
	return appt, nil
}

// UpdateStatus advances an appointment along its lifecycle. Doctors may only
// touch their own appointments; admins any.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, apptID uuid.UUID, newStatus string) (*Appointment, error) {
	if !validStatuses[newStatus] {
		return nil, apperr.Validationf("unknown status: %s", newStatus)
	}

	appt, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("appointment not found")
		}
		return nil, apperr.Internal("load appointment", err)
	}

	if actor.Role == auth.RoleDoctor {
		doctor, err := s.doctors.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperr.NotFoundf("doctor profile not found")
			}
			return nil, apperr.Internal("load doctor", err)
		}
		if doctor.ID != appt.DoctorID {
			return nil, apperr.Forbidden("appointment belongs to another doctor")
		}
	}

	if allowedTransitions[appt.Status] != newStatus {
		return nil, apperr.InvalidStatef("cannot move appointment from %s to %s", appt.Status, newStatus)
	}

	if err := s.appts.UpdateStatus(ctx, apptID, newStatus); err != nil {
		return nil, apperr.Internal("update status", err)
	}
	appt.Status = newStatus
	return appt, nil
}

// ListByRole returns the appointments visible to the actor: patients and
// doctors see their own ledger, admins everything.
func (s *Service) ListByRole(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Appointment, int, error) {
	switch actor.Role {
	case auth.RolePatient:
		patient, err := s.patients.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, 0, apperr.NotFoundf("patient profile not found")
			}
			return nil, 0, apperr.Internal("load patient", err)
		}
		appts, total, err := s.appts.ListByPatient(ctx, patient.ID, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list appointments", err)
		}
		return appts, total, nil
	case auth.RoleDoctor:
		doctor, err := s.doctors.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, 0, apperr.NotFoundf("doctor profile not found")
			}
			return nil, 0, apperr.Internal("load doctor", err)
		}
		appts, total, err := s.appts.ListByDoctor(ctx, doctor.ID, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list appointments", err)
		}
		return appts, total, nil
	case auth.RoleAdmin:
		appts, total, err := s.appts.ListAll(ctx, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list appointments", err)
		}
		return appts, total, nil
	default:
		return nil, 0, apperr.Forbidden("unknown role")
	}
}
