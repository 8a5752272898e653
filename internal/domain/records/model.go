package records

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is append-only: entries are written by doctors after a visit
// and never edited or deleted through the API.
type MedicalRecord struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	DoctorID      *uuid.UUID `json:"doctor_id,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Symptoms      *string    `json:"symptoms,omitempty"`
	Diagnosis     *string    `json:"diagnosis,omitempty"`
	Prescription  *string    `json:"prescription,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	VisitDate     time.Time  `json:"visit_date"`
	CreatedAt     time.Time  `json:"created_at"`

	PatientName string `json:"patient_name,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

type CreateInput struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Symptoms      *string    `json:"symptoms,omitempty"`
	Diagnosis     *string    `json:"diagnosis,omitempty"`
	Prescription  *string    `json:"prescription,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	VisitDate     *string    `json:"visit_date,omitempty"` // YYYY-MM-DD, defaults to today
}
