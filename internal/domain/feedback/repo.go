package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/directory"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb *Feedback) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Feedback, int, error)
	AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, error)
}

type PatientDirectory interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Patient, error)
}

type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Doctor, error)
}
