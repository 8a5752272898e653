package records

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/directory"
)

type RecordRepository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
}

type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Patient, error)
}

type DoctorDirectory interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Doctor, error)
}
