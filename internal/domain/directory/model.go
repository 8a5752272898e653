package directory

import (
	"time"

	"github.com/google/uuid"
)

// User account statuses. Doctors start out pending and become active once an
// admin approves them; everyone else is active from registration.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Patient struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	PhoneNumber      string     `json:"phone_number"`
	Address          *string    `json:"address,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	BloodGroup       *string    `json:"blood_group,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Joined from users for roster listings.
	Email string `json:"email,omitempty"`
}

type Doctor struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	PhoneNumber      string     `json:"phone_number"`
	SpecializationID *uuid.UUID `json:"specialization_id,omitempty"`
	LicenseNumber    string     `json:"license_number"`
	ConsultationFee  *float64   `json:"consultation_fee,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Joined fields.
	Specialization *string `json:"specialization,omitempty"`
	Email          string  `json:"email,omitempty"`
	Status         string  `json:"status,omitempty"`
}

type Admin struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
}

type Specialization struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// RegisterInput carries a self-service or admin-created registration. Profile
// fields beyond the shared ones apply only to the matching role.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`

	// Patient profile.
	Address          *string `json:"address,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`

	// Doctor profile.
	SpecializationID *uuid.UUID `json:"specialization_id,omitempty"`
	LicenseNumber    string     `json:"license_number,omitempty"`
	ConsultationFee  *float64   `json:"consultation_fee,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful register or login. Token is empty
// for accounts awaiting approval.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user"`
}

// Profile is the authenticated user together with their role profile.
type Profile struct {
	User    *User    `json:"user"`
	Patient *Patient `json:"patient,omitempty"`
	Doctor  *Doctor  `json:"doctor,omitempty"`
	Admin   *Admin   `json:"admin,omitempty"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalPatients     int `json:"total_patients"`
	ActiveDoctors     int `json:"active_doctors"`
	TotalAppointments int `json:"total_appointments"`
	PendingDoctors    int `json:"pending_doctors"`
}
