package records

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

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository { return &recordRepoPG{pool: pool} }

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *recordRepoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, appointment_id,
			symptoms, diagnosis, prescription, notes, visit_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.AppointmentID,
		rec.Symptoms, rec.Diagnosis, rec.Prescription, rec.Notes, rec.VisitDate).
		Scan(&rec.CreatedAt)
}

func (r *recordRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*MedicalRecord, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM medical_records m `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT m.id, m.patient_id, m.doctor_id, m.appointment_id,
			m.symptoms, m.diagnosis, m.prescription, m.notes, m.visit_date, m.created_at,
			p.first_name || ' ' || p.last_name,
			COALESCE(d.first_name || ' ' || d.last_name, '')
		FROM medical_records m
		JOIN patients p ON p.id = m.patient_id
		LEFT JOIN doctors d ON d.id = m.doctor_id
		%s
		ORDER BY m.visit_date DESC, m.created_at DESC
		LIMIT $%d OFFSET $%d`, where, n-1, n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*MedicalRecord
	for rows.Next() {
		var rec MedicalRecord
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.AppointmentID,
			&rec.Symptoms, &rec.Diagnosis, &rec.Prescription, &rec.Notes,
			&rec.VisitDate, &rec.CreatedAt, &rec.PatientName, &rec.DoctorName); err != nil {
			return nil, 0, err
		}
		recs = append(recs, &rec)
	}
	return recs, total, rows.Err()
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return r.list(ctx, `WHERE m.patient_id = $1`, []interface{}{patientID}, limit, offset)
}

func (r *recordRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return r.list(ctx, `WHERE m.doctor_id = $1`, []interface{}{doctorID}, limit, offset)
}

func (r *recordRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}
