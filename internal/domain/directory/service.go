package directory

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	users    UserRepository
	patients PatientRepository
	doctors  DoctorRepository
	admins   AdminRepository
	specs    SpecializationRepository
	stats    StatsRepository
	issuer   *auth.TokenIssuer
	inTx     db.TxRunner
}

func NewService(users UserRepository, patients PatientRepository, doctors DoctorRepository,
	admins AdminRepository, specs SpecializationRepository, stats StatsRepository,
	issuer *auth.TokenIssuer, inTx db.TxRunner) *Service {
	return &Service{
		users: users, patients: patients, doctors: doctors,
		admins: admins, specs: specs, stats: stats,
		issuer: issuer, inTx: inTx,
	}
}

func validateRegisterInput(in *RegisterInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if !emailPattern.MatchString(in.Email) {
		return apperr.Validationf("invalid email address")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return apperr.Validationf("password must be at least %d characters", auth.MinPasswordLength)
	}
	if !auth.ValidRole(in.Role) {
		return apperr.Validationf("invalid role: %s", in.Role)
	}
	if in.FirstName == "" || in.LastName == "" {
		return apperr.Validationf("first and last name are required")
	}
	if in.Role != auth.RoleAdmin && in.PhoneNumber == "" {
		return apperr.Validationf("phone number is required")
	}
	if in.Role == auth.RoleDoctor && strings.TrimSpace(in.LicenseNumber) == "" {
		return apperr.Validationf("license number is required for doctors")
	}
	if in.DateOfBirth != nil {
		if _, err := time.Parse("2006-01-02", *in.DateOfBirth); err != nil {
			return apperr.Validationf("date_of_birth must be YYYY-MM-DD")
		}
	}
	return nil
}

// Register creates a user account and its role profile in one transaction.
// Doctors start pending and get no session token until approved.
func (s *Service) Register(ctx context.Context, in *RegisterInput) (*Session, error) {
	return s.register(ctx, in, StatusPending)
}

// AddUser is the admin variant of Register: the account is trusted, so
// doctors start active instead of pending.
func (s *Service) AddUser(ctx context.Context, in *RegisterInput) (*User, error) {
	sess, err := s.register(ctx, in, StatusActive)
	if err != nil {
		return nil, err
	}
	return sess.User, nil
}

func (s *Service) register(ctx context.Context, in *RegisterInput, doctorStatus string) (*Session, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	status := StatusActive
	if in.Role == auth.RoleDoctor {
		status = doctorStatus
	}

	user := &User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       status,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "users_email_key") {
				return apperr.Conflictf("email already registered")
			}
			return apperr.Internal("create user", err)
		}
		return s.createProfile(ctx, user, in)
	})
	if err != nil {
		return nil, err
	}

	sess := &Session{User: user}
	if user.Status == StatusActive {
		token, err := s.issuer.Issue(user.ID, user.Role)
		if err != nil {
			return nil, apperr.Internal("issue token", err)
		}
		sess.Token = token
	}
	return sess, nil
}

func (s *Service) createProfile(ctx context.Context, user *User, in *RegisterInput) error {
	switch user.Role {
	case auth.RolePatient:
		var dob *time.Time
		if in.DateOfBirth != nil {
			t, _ := time.Parse("2006-01-02", *in.DateOfBirth)
			dob = &t
		}
		p := &Patient{
			UserID: user.ID, FirstName: in.FirstName, LastName: in.LastName,
			PhoneNumber: in.PhoneNumber, Address: in.Address, Gender: in.Gender,
			DateOfBirth: dob, BloodGroup: in.BloodGroup, EmergencyContact: in.EmergencyContact,
		}
		if err := s.patients.Create(ctx, p); err != nil {
			return apperr.Internal("create patient profile", err)
		}
	case auth.RoleDoctor:
		d := &Doctor{
			UserID: user.ID, FirstName: in.FirstName, LastName: in.LastName,
			PhoneNumber: in.PhoneNumber, SpecializationID: in.SpecializationID,
			LicenseNumber: strings.TrimSpace(in.LicenseNumber),
			ConsultationFee: in.ConsultationFee, Bio: in.Bio,
		}
		if err := s.doctors.Create(ctx, d); err != nil {
			if db.IsUniqueViolation(err, "doctors_license_number_key") {
				return apperr.Conflictf("license number already registered")
			}
			return apperr.Internal("create doctor profile", err)
		}
	case auth.RoleAdmin:
		var phone *string
		if in.PhoneNumber != "" {
			phone = &in.PhoneNumber
		}
		a := &Admin{UserID: user.ID, FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: phone}
		if err := s.admins.Create(ctx, a); err != nil {
			return apperr.Internal("create admin profile", err)
		}
	}
	return nil
}

// Login verifies credentials and returns a session token. Accounts that are
// not active (doctors awaiting approval) are refused outright.
func (s *Service) Login(ctx context.Context, in *LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validationf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, apperr.Internal("load user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if user.Status != StatusActive {
		return nil, apperr.Forbidden("account is pending approval")
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &Session{Token: token, User: user}, nil
}

// Me returns the calling user together with their role profile.
func (s *Service) Me(ctx context.Context, actor auth.Actor) (*Profile, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("user not found")
		}
		return nil, apperr.Internal("load user", err)
	}

	prof := &Profile{User: user}
	switch user.Role {
	case auth.RolePatient:
		prof.Patient, err = s.patients.GetByUserID(ctx, user.ID)
	case auth.RoleDoctor:
		prof.Doctor, err = s.doctors.GetByUserID(ctx, user.ID)
	case auth.RoleAdmin:
		prof.Admin, err = s.admins.GetByUserID(ctx, user.ID)
	}
	if err != nil && !db.IsNotFound(err) {
		return nil, apperr.Internal("load profile", err)
	}
	return prof, nil
}

// ListDoctors is the public directory: active doctors only, optionally
// filtered by specialization.
func (s *Service) ListDoctors(ctx context.Context, specializationID *uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	doctors, total, err := s.doctors.ListActive(ctx, specializationID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("list doctors", err)
	}
	return doctors, total, nil
}

func (s *Service) ListSpecializations(ctx context.Context) ([]*Specialization, error) {
	specs, err := s.specs.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list specializations", err)
	}
	return specs, nil
}

// ApproveDoctor flips a pending doctor account to active.
func (s *Service) ApproveDoctor(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFoundf("user not found")
		}
		return nil, apperr.Internal("load user", err)
	}
	if user.Role != auth.RoleDoctor {
		return nil, apperr.Validationf("user is not a doctor")
	}
	if user.Status != StatusPending {
		return nil, apperr.InvalidStatef("doctor is not pending approval")
	}
	if err := s.users.UpdateStatus(ctx, userID, StatusActive); err != nil {
		return nil, apperr.Internal("update status", err)
	}
	user.Status = StatusActive
	return user, nil
}

// ListPatients is the admin roster.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	patients, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("list patients", err)
	}
	return patients, total, nil
}

// ListDoctorsAdmin is the admin roster, pending doctors included.
func (s *Service) ListDoctorsAdmin(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	doctors, total, err := s.doctors.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("list doctors", err)
	}
	return doctors, total, nil
}

// DeleteUser removes an account. The role parameter must match the target's
// actual role, which guards against deleting the wrong account by a stale
// id. Admin accounts cannot be deleted through the API.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID, role string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperr.NotFoundf("user not found")
		}
		return apperr.Internal("load user", err)
	}
	if user.Role != role {
		return apperr.Validationf("role mismatch: user is a %s", user.Role)
	}
	if user.Role == auth.RoleAdmin {
		return apperr.Forbidden("admin accounts cannot be deleted")
	}
	// Profiles, appointments, records and invoices go with the user via
	// ON DELETE CASCADE.
	if err := s.users.Delete(ctx, userID); err != nil {
		return apperr.Internal("delete user", err)
	}
	return nil
}

// Stats returns the admin dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.stats.Collect(ctx)
	if err != nil {
		return nil, apperr.Internal("collect stats", err)
	}
	return st, nil
}
