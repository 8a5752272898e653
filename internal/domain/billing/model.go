package billing

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Invoice struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	AppointmentID  uuid.UUID  `json:"appointment_id"`
	InvoiceNumber  string     `json:"invoice_number"`
	TotalAmount    float64    `json:"total_amount"`
	PaidAmount     float64    `json:"paid_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	TaxAmount      float64    `json:"tax_amount"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	PatientName string         `json:"patient_name,omitempty"`
	Items       []*InvoiceItem `json:"items,omitempty"`
}

type InvoiceItem struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

// QueueEntry is a completed appointment that has no invoice yet.
type QueueEntry struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Date          time.Time `json:"appointment_date"`
	Time          string    `json:"appointment_time"`
	PatientName   string    `json:"patient_name"`
	DoctorName    string    `json:"doctor_name"`
}

type ItemInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateInvoiceInput struct {
	AppointmentID  uuid.UUID   `json:"appointment_id"`
	TotalAmount    *float64    `json:"total_amount,omitempty"`
	PaidAmount     float64     `json:"paid_amount"`
	DiscountAmount float64     `json:"discount_amount"`
	TaxAmount      float64     `json:"tax_amount"`
	DueDate        *string     `json:"due_date,omitempty"` // YYYY-MM-DD
	Items          []ItemInput `json:"items"`
}
