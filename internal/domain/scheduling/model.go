package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses form a one-way lifecycle: pending when booked,
// confirmed by the doctor, completed after the visit.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusConfirmed: true, StatusCompleted: true,
}

// allowedTransitions is the whole lifecycle; anything not listed here is
// rejected, including any move out of completed.
var allowedTransitions = map[string]string{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusCompleted,
}

type Appointment struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      time.Time `json:"appointment_date"`
	Time      string    `json:"appointment_time"`
	Reason    *string   `json:"reason_for_visit,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields, populated per caller role.
	PatientName    string  `json:"patient_name,omitempty"`
	PatientPhone   string  `json:"patient_phone,omitempty"`
	DoctorName     string  `json:"doctor_name,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

type BookInput struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"appointment_date"` // YYYY-MM-DD
	Time     string    `json:"appointment_time"` // HH:MM, 24h
	Reason   *string   `json:"reason_for_visit,omitempty"`
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}
