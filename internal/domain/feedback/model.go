package feedback

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	PatientName string `json:"patient_name,omitempty"`
}

type CreateInput struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Rating   int       `json:"rating"`
	Comment  *string   `json:"comment,omitempty"`
}

// DoctorFeedback is a doctor's feedback page: the entries plus the running
// average.
type DoctorFeedback struct {
	Entries       []*Feedback `json:"entries"`
	AverageRating float64     `json:"average_rating"`
	Total         int         `json:"total"`
}
