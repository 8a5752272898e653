package scheduling

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.reason_for_visit, a.status, a.created_at, a.updated_at`

// joined names for both sides; callers drop what they don't need
const apptJoin = `
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
	LEFT JOIN specializations s ON s.id = d.specialization_id`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time,
			reason_for_visit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Reason, a.Status).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+apptCols+`,
			p.first_name || ' ' || p.last_name,
			p.phone_number,
			d.first_name || ' ' || d.last_name,
			s.name
		`+apptJoin+`
		WHERE a.id = $1`, id).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
			&a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.PatientName, &a.PatientPhone, &a.DoctorName, &a.Specialization)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Appointment, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM appointments a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT `+apptCols+`,
			p.first_name || ' ' || p.last_name,
			p.phone_number,
			d.first_name || ' ' || d.last_name,
			s.name
		`+apptJoin+`
		%s
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $%d OFFSET $%d`, where, n-1, n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
			&a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.PatientName, &a.PatientPhone, &a.DoctorName, &a.Specialization); err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, rows.Err()
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `WHERE a.patient_id = $1`, []interface{}{patientID}, limit, offset)
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `WHERE a.doctor_id = $1`, []interface{}{doctorID}, limit, offset)
}

func (r *appointmentRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}
