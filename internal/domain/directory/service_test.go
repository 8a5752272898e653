package directory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

// -- mock repositories --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Status = status
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Patient, error) {
	for _, p := range m.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
	users   *mockUserRepo
}

func newMockDoctorRepo(users *mockUserRepo) *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor), users: users}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	for _, existing := range m.doctors {
		if existing.LicenseNumber == d.LicenseNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctors_license_number_key"}
		}
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDoctorRepo) ListActive(_ context.Context, specID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		u, ok := m.users.users[d.UserID]
		if !ok || u.Status != StatusActive {
			continue
		}
		if specID != nil && (d.SpecializationID == nil || *d.SpecializationID != *specID) {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *mockDoctorRepo) ListAll(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		out = append(out, d)
	}
	return out, len(out), nil
}

type mockAdminRepo struct {
	admins map[uuid.UUID]*Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[uuid.UUID]*Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, a *Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.admins[a.ID] = a
	return nil
}

func (m *mockAdminRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Admin, error) {
	for _, a := range m.admins {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type mockSpecRepo struct {
	specs []*Specialization
}

func (m *mockSpecRepo) List(_ context.Context) ([]*Specialization, error) {
	return m.specs, nil
}

type mockStatsRepo struct {
	stats Stats
}

func (m *mockStatsRepo) Collect(_ context.Context) (*Stats, error) {
	cp := m.stats
	return &cp, nil
}

type fixture struct {
	svc      *Service
	users    *mockUserRepo
	patients *mockPatientRepo
	doctors  *mockDoctorRepo
	admins   *mockAdminRepo
	specs    *mockSpecRepo
	stats    *mockStatsRepo
}

func newFixture() *fixture {
	users := newMockUserRepo()
	patients := newMockPatientRepo()
	doctors := newMockDoctorRepo(users)
	admins := newMockAdminRepo()
	specs := &mockSpecRepo{}
	stats := &mockStatsRepo{}
	issuer := auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	svc := NewService(users, patients, doctors, admins, specs, stats, issuer, db.NoTxRunner())
	return &fixture{svc: svc, users: users, patients: patients, doctors: doctors,
		admins: admins, specs: specs, stats: stats}
}

func patientInput() *RegisterInput {
	return &RegisterInput{
		Email:       "jane@example.com",
		Password:    "supersecret",
		Role:        auth.RolePatient,
		FirstName:   "Jane",
		LastName:    "Miller",
		PhoneNumber: "555-0100",
	}
}

func doctorInput() *RegisterInput {
	return &RegisterInput{
		Email:         "doc@example.com",
		Password:      "supersecret",
		Role:          auth.RoleDoctor,
		FirstName:     "Gregory",
		LastName:      "House",
		PhoneNumber:   "555-0101",
		LicenseNumber: "MD-12345",
	}
}

// -- Register --

func TestRegister_PatientGetsToken(t *testing.T) {
	f := newFixture()

	sess, err := f.svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if sess.Token == "" {
		t.Error("expected session token for active patient")
	}
	if sess.User.Status != StatusActive {
		t.Errorf("expected active status, got %s", sess.User.Status)
	}
	if len(f.patients.patients) != 1 {
		t.Errorf("expected one patient profile, got %d", len(f.patients.patients))
	}
}

func TestRegister_DoctorStartsPending(t *testing.T) {
	f := newFixture()

	sess, err := f.svc.Register(context.Background(), doctorInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if sess.User.Status != StatusPending {
		t.Errorf("expected pending status, got %s", sess.User.Status)
	}
	if sess.Token != "" {
		t.Error("pending doctor must not receive a token")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	_, err := f.svc.Register(context.Background(), patientInput())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegister_DuplicateLicense(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Register(context.Background(), doctorInput()); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	in := doctorInput()
	in.Email = "other@example.com"
	_, err := f.svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("expected conflict for duplicate license, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"bad role", func(in *RegisterInput) { in.Role = "superuser" }},
		{"missing name", func(in *RegisterInput) { in.FirstName = "" }},
		{"missing phone", func(in *RegisterInput) { in.PhoneNumber = "" }},
		{"bad dob", func(in *RegisterInput) { s := "31-12-1990"; in.DateOfBirth = &s }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := patientInput()
			tt.mutate(in)
			_, err := f.svc.Register(context.Background(), in)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DoctorWithoutLicense(t *testing.T) {
	f := newFixture()
	in := doctorInput()
	in.LicenseNumber = ""
	_, err := f.svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

// -- Login --

func TestLogin_Success(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	sess, err := f.svc.Login(context.Background(), &LoginInput{
		Email: "jane@example.com", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if sess.Token == "" {
		t.Error("expected session token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	_, err := f.svc.Login(context.Background(), &LoginInput{
		Email: "jane@example.com", Password: "not-the-password",
	})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Login(context.Background(), &LoginInput{
		Email: "ghost@example.com", Password: "whatever1",
	})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLogin_PendingDoctorForbidden(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Register(context.Background(), doctorInput()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	_, err := f.svc.Login(context.Background(), &LoginInput{
		Email: "doc@example.com", Password: "supersecret",
	})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden for pending doctor, got %v", err)
	}
}

// -- ApproveDoctor --

func TestApproveDoctor(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.Register(context.Background(), doctorInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	user, err := f.svc.ApproveDoctor(context.Background(), sess.User.ID)
	if err != nil {
		t.Fatalf("ApproveDoctor() error: %v", err)
	}
	if user.Status != StatusActive {
		t.Errorf("expected active status, got %s", user.Status)
	}

	// Approved doctor can log in now.
	if _, err := f.svc.Login(context.Background(), &LoginInput{
		Email: "doc@example.com", Password: "supersecret",
	}); err != nil {
		t.Errorf("approved doctor should log in: %v", err)
	}

	// A second approval is an invalid state transition.
	_, err = f.svc.ApproveDoctor(context.Background(), sess.User.ID)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("expected invalid state on re-approval, got %v", err)
	}
}

func TestApproveDoctor_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ApproveDoctor(context.Background(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestApproveDoctor_NotADoctor(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, err = f.svc.ApproveDoctor(context.Background(), sess.User.ID)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

// -- AddUser --

func TestAddUser_DoctorStartsActive(t *testing.T) {
	f := newFixture()
	user, err := f.svc.AddUser(context.Background(), doctorInput())
	if err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}
	if user.Status != StatusActive {
		t.Errorf("admin-created doctor should be active, got %s", user.Status)
	}
}

// -- DeleteUser --

func TestDeleteUser(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if err := f.svc.DeleteUser(context.Background(), sess.User.ID, auth.RolePatient); err != nil {
		t.Fatalf("DeleteUser() error: %v", err)
	}
	if _, err := f.users.GetByID(context.Background(), sess.User.ID); !db.IsNotFound(err) {
		t.Error("expected user gone after delete")
	}
}

func TestDeleteUser_RoleMismatch(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	err = f.svc.DeleteUser(context.Background(), sess.User.ID, auth.RoleDoctor)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error on role mismatch, got %v", err)
	}
}

func TestDeleteUser_AdminRefused(t *testing.T) {
	f := newFixture()
	in := patientInput()
	in.Role = auth.RoleAdmin
	user, err := f.svc.AddUser(context.Background(), in)
	if err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}

	err = f.svc.DeleteUser(context.Background(), user.ID, auth.RoleAdmin)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden deleting admin, got %v", err)
	}
}

// -- Me / listings --

func TestMe_ReturnsProfile(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	prof, err := f.svc.Me(context.Background(), auth.Actor{ID: sess.User.ID, Role: auth.RolePatient})
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if prof.Patient == nil {
		t.Fatal("expected patient profile")
	}
	if prof.Patient.FirstName != "Jane" {
		t.Errorf("unexpected profile: %+v", prof.Patient)
	}
}

func TestListDoctors_ActiveOnly(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Register(context.Background(), doctorInput()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	active := doctorInput()
	active.Email = "active@example.com"
	active.LicenseNumber = "MD-99999"
	if _, err := f.svc.AddUser(context.Background(), active); err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}

	doctors, total, err := f.svc.ListDoctors(context.Background(), nil, 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors() error: %v", err)
	}
	if total != 1 || len(doctors) != 1 {
		t.Fatalf("expected one active doctor, got %d", total)
	}
	if doctors[0].LicenseNumber != "MD-99999" {
		t.Errorf("wrong doctor listed: %+v", doctors[0])
	}
}

func TestStats(t *testing.T) {
	f := newFixture()
	f.stats.stats = Stats{TotalPatients: 4, ActiveDoctors: 2, TotalAppointments: 9, PendingDoctors: 1}

	st, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if st.PendingDoctors != 1 || st.TotalAppointments != 9 {
		t.Errorf("unexpected stats: %+v", st)
	}
}
