package billing

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/domain/scheduling"
	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

// totalTolerance absorbs float drift when comparing a client-supplied total
// against the recomputed one.
const totalTolerance = 0.01

type Service struct {
	invoices InvoiceRepository
	appts    AppointmentLedger
	patients PatientDirectory
	inTx     db.TxRunner
}

func NewService(invoices InvoiceRepository, appts AppointmentLedger, patients PatientDirectory, inTx db.TxRunner) *Service {
	return &Service{invoices: invoices, appts: appts, patients: patients, inTx: inTx}
}

// Queue returns the completed appointments still waiting for an invoice.
func (s *Service) Queue(ctx context.Context, limit, offset int) ([]*QueueEntry, int, error) {
	queue, total, err := s.invoices.Queue(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("load billing queue", err)
	}
	return queue, total, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// buildItems drops unusable line items: blank descriptions and non-positive
// unit prices are skipped rather than rejected. Quantity defaults to 1.
func buildItems(inputs []ItemInput) []*InvoiceItem {
	var items []*InvoiceItem
	for _, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if desc == "" || in.UnitPrice <= 0 {
			continue
		}
		qty := in.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, &InvoiceItem{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   in.UnitPrice,
			TotalPrice:  float64(qty) * in.UnitPrice,
		})
	}
	return items
}

func newInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return "INV-" + time.Now().Format("20060102") + "-" + suffix
}

// CreateInvoice bills a completed appointment. Preconditions are checked in
// order: the appointment must exist, must be completed, and must not be
// invoiced already. The total is always recomputed from the line items; a
// client-supplied total that disagrees is refused rather than silently
// corrected.
func (s *Service) CreateInvoice(ctx context.Context, in *CreateInvoiceInput) (*Invoice, error) {
	if in.AppointmentID == uuid.Nil {
		return nil, apperr.Validationf("appointment_id is required")
	}
	if !finite(in.PaidAmount, in.DiscountAmount, in.TaxAmount) {
		return nil, apperr.Validationf("amounts must be finite numbers")
	}
	if in.TotalAmount != nil && !finite(*in.TotalAmount) {
		return nil, apperr.Validationf("amounts must be finite numbers")
	}
	if in.PaidAmount < 0 || in.DiscountAmount < 0 || in.TaxAmount < 0 {
		return nil, apperr.Validationf("amounts must not be negative")
	}

	var dueDate *time.Time
	if in.DueDate != nil {
		t, err := time.Parse("2006-01-02", *in.DueDate)
		if err != nil {
			return nil, apperr.Validationf("due_date must be YYYY-MM-DD")
		}
		dueDate = &t
	}

	appt, err := s.appts.GetByID(ctx, in.AppointmentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("appointment not found")
		}
		return nil, apperr.Internal("load appointment", err)
	}
	if appt.Status != scheduling.StatusCompleted {
		return nil, apperr.InvalidStatef("appointment is not completed")
	}

	if _, err := s.invoices.GetByAppointment(ctx, in.AppointmentID); err == nil {
		return nil, apperr.Conflictf("appointment is already invoiced")
	} else if !db.IsNotFound(err) {
		return nil, apperr.Internal("check existing invoice", err)
	}

	items := buildItems(in.Items)
	var total float64
	for _, it := range items {
		total += it.TotalPrice
	}
	total = total - in.DiscountAmount + in.TaxAmount
	if total < 0 {
		total = 0
	}
	if in.TotalAmount != nil && math.Abs(*in.TotalAmount-total) > totalTolerance {
		return nil, apperr.Validationf("total_amount does not match line items")
	}

	status := StatusPending
	if in.PaidAmount >= total {
		status = StatusPaid
	}

	inv := &Invoice{
		PatientID:      appt.PatientID,
		AppointmentID:  appt.ID,
		InvoiceNumber:  newInvoiceNumber(),
		TotalAmount:    total,
		PaidAmount:     in.PaidAmount,
		DiscountAmount: in.DiscountAmount,
		TaxAmount:      in.TaxAmount,
		Status:         status,
		DueDate:        dueDate,
		PatientName:    appt.PatientName,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.invoices.Create(ctx, inv); err != nil {
			// Lost a race with another admin creating the same invoice.
			if db.IsUniqueViolation(err, "") {
				return apperr.Conflictf("appointment is already invoiced")
			}
			return apperr.Internal("create invoice", err)
		}
		for _, it := range items {
			it.InvoiceID = inv.ID
		}
		if len(items) > 0 {
			if err := s.invoices.InsertItems(ctx, items); err != nil {
				return apperr.Internal("create invoice items", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inv.Items = items
	return inv, nil
}

// ListInvoices is role-scoped: patients see their own, doctors and admins
// everything.
func (s *Service) ListInvoices(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Invoice, int, error) {
	if actor.Role == auth.RolePatient {
		patient, err := s.patients.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, 0, apperr.NotFoundf("patient profile not found")
			}
			return nil, 0, apperr.Internal("load patient", err)
		}
		invoices, total, err := s.invoices.ListByPatient(ctx, patient.ID, limit, offset)
		if err != nil {
			return nil, 0, apperr.Internal("list invoices", err)
		}
		return invoices, total, nil
	}

	invoices, total, err := s.invoices.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("list invoices", err)
	}
	return invoices, total, nil
}

// GetInvoice returns one invoice with its line items. Patients can only
// fetch their own.
func (s *Service) GetInvoice(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("invoice not found")
		}
		return nil, apperr.Internal("load invoice", err)
	}

	if actor.Role == auth.RolePatient {
		patient, err := s.patients.GetByUserID(ctx, actor.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperr.NotFoundf("patient profile not found")
			}
			return nil, apperr.Internal("load patient", err)
		}
		if inv.PatientID != patient.ID {
			return nil, apperr.NotFoundf("invoice not found")
		}
	}
	return inv, nil
}
