package directory

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	ListActive(ctx context.Context, specializationID *uuid.UUID, limit, offset int) ([]*Doctor, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Admin, error)
}

type SpecializationRepository interface {
	List(ctx context.Context) ([]*Specialization, error)
}

// StatsRepository aggregates the dashboard counters in one round trip.
type StatsRepository interface {
	Collect(ctx context.Context) (*Stats, error)
}
