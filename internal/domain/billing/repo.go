package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/directory"
	"github.com/medicore/medicore/internal/domain/scheduling"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	InsertItems(ctx context.Context, items []*InvoiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Invoice, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	Queue(ctx context.Context, limit, offset int) ([]*QueueEntry, int, error)
}

// AppointmentLedger is the slice of the scheduling package billing needs.
type AppointmentLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
}

type PatientDirectory interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*directory.Patient, error)
}
