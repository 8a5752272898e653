package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

type Service struct {
	feedback FeedbackRepository
	patients PatientDirectory
	doctors  DoctorDirectory
}

func NewService(feedback FeedbackRepository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{feedback: feedback, patients: patients, doctors: doctors}
}

// Create records a patient's rating for a doctor.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in *CreateInput) (*Feedback, error) {
	if in.DoctorID == uuid.Nil {
		return nil, apperr.Validationf("doctor_id is required")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, apperr.Validationf("rating must be between %d and %d", MinRating, MaxRating)
	}

	patient, err := s.patients.GetByUserID(ctx, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("patient profile not found")
		}
		return nil, apperr.Internal("load patient", err)
	}

	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("doctor not found")
		}
		return nil, apperr.Internal("load doctor", err)
	}

	fb := &Feedback{
		PatientID: patient.ID,
		DoctorID:  in.DoctorID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, apperr.Internal("create feedback", err)
	}
	return fb, nil
}

// ListForDoctor returns the feedback left for the calling doctor together
// with the running average.
func (s *Service) ListForDoctor(ctx context.Context, actor auth.Actor, limit, offset int) (*DoctorFeedback, error) {
	doctor, err := s.doctors.GetByUserID(ctx, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("doctor profile not found")
		}
		return nil, apperr.Internal("load doctor", err)
	}

	entries, total, err := s.feedback.ListByDoctor(ctx, doctor.ID, limit, offset)
	if err != nil {
		return nil, apperr.Internal("list feedback", err)
	}
	avg, err := s.feedback.AverageForDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, apperr.Internal("average rating", err)
	}

	return &DoctorFeedback{Entries: entries, AverageRating: avg, Total: total}, nil
}
