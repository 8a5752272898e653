package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository { return &invoiceRepoPG{pool: pool} }

func (r *invoiceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invCols = `i.id, i.patient_id, i.appointment_id, i.invoice_number,
	i.total_amount, i.paid_amount, i.discount_amount, i.tax_amount,
	i.status, i.due_date, i.created_at`

func scanInvoice(row pgx.Row, withName bool) (*Invoice, error) {
	var inv Invoice
	dest := []interface{}{&inv.ID, &inv.PatientID, &inv.AppointmentID, &inv.InvoiceNumber,
		&inv.TotalAmount, &inv.PaidAmount, &inv.DiscountAmount, &inv.TaxAmount,
		&inv.Status, &inv.DueDate, &inv.CreatedAt}
	if withName {
		dest = append(dest, &inv.PatientName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, invoice_number,
			total_amount, paid_amount, discount_amount, tax_amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		inv.ID, inv.PatientID, inv.AppointmentID, inv.InvoiceNumber,
		inv.TotalAmount, inv.PaidAmount, inv.DiscountAmount, inv.TaxAmount,
		inv.Status, inv.DueDate).Scan(&inv.CreatedAt)
}

func (r *invoiceRepoPG) InsertItems(ctx context.Context, items []*InvoiceItem) error {
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.InvoiceID, it.Description, it.Quantity, it.UnitPrice, it.TotalPrice)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepoPG) loadItems(ctx context.Context, inv *Invoice) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, total_price
		FROM invoice_items WHERE invoice_id = $1`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice); err != nil {
			return err
		}
		inv.Items = append(inv.Items, &it)
	}
	return rows.Err()
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx, `
		SELECT `+invCols+`, p.first_name || ' ' || p.last_name
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		WHERE i.id = $1`, id), true)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx, `
		SELECT `+invCols+` FROM invoices i WHERE i.appointment_id = $1`, appointmentID), false)
}

func (r *invoiceRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Invoice, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM invoices i `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT `+invCols+`, p.first_name || ' ' || p.last_name
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		%s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d`, where, n-1, n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.PatientID, &inv.AppointmentID, &inv.InvoiceNumber,
			&inv.TotalAmount, &inv.PaidAmount, &inv.DiscountAmount, &inv.TaxAmount,
			&inv.Status, &inv.DueDate, &inv.CreatedAt, &inv.PatientName); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, total, rows.Err()
}

func (r *invoiceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return r.list(ctx, `WHERE i.patient_id = $1`, []interface{}{patientID}, limit, offset)
}

func (r *invoiceRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

// Queue lists completed appointments that have no invoice, newest first.
func (r *invoiceRepoPG) Queue(ctx context.Context, limit, offset int) ([]*QueueEntry, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments a
		LEFT JOIN invoices i ON i.appointment_id = a.id
		WHERE a.status = 'completed' AND i.id IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := c.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
			p.first_name || ' ' || p.last_name,
			d.first_name || ' ' || d.last_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		LEFT JOIN invoices i ON i.appointment_id = a.id
		WHERE a.status = 'completed' AND i.id IS NULL
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var queue []*QueueEntry
	for rows.Next() {
		var q QueueEntry
		if err := rows.Scan(&q.AppointmentID, &q.PatientID, &q.DoctorID, &q.Date, &q.Time,
			&q.PatientName, &q.DoctorName); err != nil {
			return nil, 0, err
		}
		queue = append(queue, &q)
	}
	return queue, total, rows.Err()
}
