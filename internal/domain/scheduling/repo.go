package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/directory"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}

// PatientDirectory and DoctorDirectory are the slices of the directory
// package this service needs to resolve actors against profiles.
type PatientDirectory interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Patient, error)
}

type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Doctor, error)
}
