package records

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

type Service struct {
	records  RecordRepository
	patients PatientDirectory
	doctors  DoctorDirectory
}

func NewService(records RecordRepository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{records: records, patients: patients, doctors: doctors}
}

// Create writes a record entry on behalf of the calling doctor.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in *CreateInput) (*MedicalRecord, error) {
	if in.PatientID == uuid.Nil {
		return nil, apperr.Validationf("patient_id is required")
	}

	visitDate := time.Now()
	if in.VisitDate != nil {
		t, err := time.Parse("2006-01-02", *in.VisitDate)
		if err != nil {
			return nil, apperr.Validationf("visit_date must be YYYY-MM-DD")
		}
		visitDate = t
	}

	doctor, err := s.doctors.GetByUserID(ctx, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("doctor profile not found")
		}
		return nil, apperr.Internal("load doctor", err)
	}

	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("patient not found")
		}
		return nil, apperr.Internal("load patient", err)
	}

	rec := &MedicalRecord{
		PatientID:     in.PatientID,
		DoctorID:      &doctor.ID,
		AppointmentID: in.AppointmentID,
		Symptoms:      in.Symptoms,
		Diagnosis:     in.Diagnosis,
		Prescription:  in.Prescription,
		Notes:         in.Notes,
		VisitDate:     visitDate,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, apperr.Internal("create medical record", err)
	}
	return rec, nil
}

// ListByRole returns the records visible to the actor.
func (s *Service) ListByRole(ctx context.Context, actor auth.Actor, limit, offset int) ([]*MedicalRecord, int, error) {
	switch actor.Role {
	case auth.RolePatient:
		patient, err := s.patients.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, 0, apperr.NotFoundf("patient profile not found")
			}
			return nil, 0, apperr.Internal("load patient", err)
		}
		recs, total, err := s.records.ListByPatient(ctx, patient.ID, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list records", err)
		}
		return recs, total, nil
	case auth.RoleDoctor:
		doctor, err := s.doctors.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, 0, apperr.NotFoundf("doctor profile not found")
			}
			return nil, 0, apperr.Internal("load doctor", err)
		}
		recs, total, err := s.records.ListByDoctor(ctx, doctor.ID, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list records", err)
		}
		return recs, total, nil
	case auth.RoleAdmin:
		recs, total, err := s.records.ListAll(ctx, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list records", err)
		}
		return recs, total, nil
	default:
		return nil, 0, apperr.Forbidden("unknown role")
	}
}
