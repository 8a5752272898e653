package feedback

import (
	"context"

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

type feedbackRepoPG struct{ pool *pgxpool.Pool }

func NewFeedbackRepoPG(pool *pgxpool.Pool) FeedbackRepository { return &feedbackRepoPG{pool: pool} }

func (r *feedbackRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *feedbackRepoPG) Create(ctx context.Context, fb *Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO feedback (id, patient_id, doctor_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		fb.ID, fb.PatientID, fb.DoctorID, fb.Rating, fb.Comment).Scan(&fb.CreatedAt)
}

func (r *feedbackRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := c.Query(ctx, `
		SELECT f.id, f.patient_id, f.doctor_id, f.rating, f.comment, f.created_at,
			p.first_name || ' ' || p.last_name
		FROM feedback f
		JOIN patients p ON p.id = f.patient_id
		WHERE f.doctor_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.PatientID, &fb.DoctorID, &fb.Rating, &fb.Comment,
			&fb.CreatedAt, &fb.PatientName); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &fb)
	}
	return entries, total, rows.Err()
}

func (r *feedbackRepoPG) AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, error) {
	var avg float64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM feedback WHERE doctor_id = $1`, doctorID).Scan(&avg)
	return avg, err
}
