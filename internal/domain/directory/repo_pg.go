package directory

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Users ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

const userCols = `id, email, password_hash, role, status, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.Status).Scan(&u.CreatedAt)
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// =========== Patients ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `p.id, p.user_id, p.first_name, p.last_name, p.phone_number,
	p.address, p.gender, p.date_of_birth, p.blood_group, p.emergency_contact, p.created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PhoneNumber,
		&p.Address, &p.Gender, &p.DateOfBirth, &p.BloodGroup, &p.EmergencyContact, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patients (id, user_id, first_name, last_name, phone_number,
			address, gender, date_of_birth, blood_group, emergency_contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.PhoneNumber,
		p.Address, p.Gender, p.DateOfBirth, p.BloodGroup, p.EmergencyContact).Scan(&p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.id = $1`, id))
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.user_id = $1`, userID))
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	c := conn(ctx, r.pool)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := c.Query(ctx, `
		SELECT `+patientCols+`, u.email
		FROM patients p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PhoneNumber,
			&p.Address, &p.Gender, &p.DateOfBirth, &p.BloodGroup, &p.EmergencyContact,
			&p.CreatedAt, &p.Email); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

// =========== Doctors ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `d.id, d.user_id, d.first_name, d.last_name, d.phone_number,
	d.specialization_id, d.license_number, d.consultation_fee, d.bio, d.created_at`

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO doctors (id, user_id, first_name, last_name, phone_number,
			specialization_id, license_number, consultation_fee, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		d.ID, d.UserID, d.FirstName, d.LastName, d.PhoneNumber,
		d.SpecializationID, d.LicenseNumber, d.ConsultationFee, d.Bio).Scan(&d.CreatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+doctorCols+`, s.name, u.email, u.status
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		LEFT JOIN specializations s ON s.id = d.specialization_id
		WHERE d.id = $1`, id).
		Scan(&d.ID, &d.UserID, &d.FirstName, &d.LastName, &d.PhoneNumber,
			&d.SpecializationID, &d.LicenseNumber, &d.ConsultationFee, &d.Bio, &d.CreatedAt,
			&d.Specialization, &d.Email, &d.Status)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+doctorCols+`, s.name, u.email, u.status
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		LEFT JOIN specializations s ON s.id = d.specialization_id
		WHERE d.user_id = $1`, userID).
		Scan(&d.ID, &d.UserID, &d.FirstName, &d.LastName, &d.PhoneNumber,
			&d.SpecializationID, &d.LicenseNumber, &d.ConsultationFee, &d.Bio, &d.CreatedAt,
			&d.Specialization, &d.Email, &d.Status)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Doctor, int, error) {
	c := conn(ctx, r.pool)

	var total int
	countSQL := `SELECT COUNT(*) FROM doctors d JOIN users u ON u.id = d.user_id ` + where
	if err := c.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT `+doctorCols+`, s.name, u.email, u.status
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		LEFT JOIN specializations s ON s.id = d.specialization_id
		%s
		ORDER BY d.last_name, d.first_name
		LIMIT $%d OFFSET $%d`, where, n-1, n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.UserID, &d.FirstName, &d.LastName, &d.PhoneNumber,
			&d.SpecializationID, &d.LicenseNumber, &d.ConsultationFee, &d.Bio, &d.CreatedAt,
			&d.Specialization, &d.Email, &d.Status); err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, total, rows.Err()
}

func (r *doctorRepoPG) ListActive(ctx context.Context, specializationID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	where := `WHERE u.status = 'active'`
	var args []interface{}
	if specializationID != nil {
		where += ` AND d.specialization_id = $1`
		args = append(args, *specializationID)
	}
	return r.list(ctx, where, args, limit, offset)
}

func (r *doctorRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

// =========== Admins ===========

type adminRepoPG struct{ pool *pgxpool.Pool }

func NewAdminRepoPG(pool *pgxpool.Pool) AdminRepository { return &adminRepoPG{pool: pool} }

func (r *adminRepoPG) Create(ctx context.Context, a *Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO admins (id, user_id, first_name, last_name, phone_number)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, a.FirstName, a.LastName, a.PhoneNumber)
	return err
}

func (r *adminRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Admin, error) {
	var a Admin
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, phone_number
		FROM admins WHERE user_id = $1`, userID).
		Scan(&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// =========== Specializations ===========

type specializationRepoPG struct{ pool *pgxpool.Pool }

func NewSpecializationRepoPG(pool *pgxpool.Pool) SpecializationRepository {
	return &specializationRepoPG{pool: pool}
}

func (r *specializationRepoPG) List(ctx context.Context) ([]*Specialization, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, name, description FROM specializations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []*Specialization
	for rows.Next() {
		var s Specialization
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, err
		}
		specs = append(specs, &s)
	}
	return specs, rows.Err()
}

// =========== Stats ===========

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) Collect(ctx context.Context) (*Stats, error) {
	var s Stats
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM doctors d JOIN users u ON u.id = d.user_id WHERE u.status = 'active'),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM doctors d JOIN users u ON u.id = d.user_id WHERE u.status = 'pending')`).
		Scan(&s.TotalPatients, &s.ActiveDoctors, &s.TotalAppointments, &s.PendingDoctors)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
