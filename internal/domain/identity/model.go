package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

// Account is a registered user. Role never changes after creation.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DoctorProfile carries the directory fields of a doctor account.
type DoctorProfile struct {
	ID              uuid.UUID `json:"id"`
	AccountID       uuid.UUID `json:"account_id"`
	Specialization  string    `json:"specialization"`
	Qualifications  *string   `json:"qualifications,omitempty"`
	ConsultationFee *float64  `json:"consultation_fee,omitempty"`
}

// DoctorSummary is one row of the public doctor directory.
type DoctorSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Specialization  string    `json:"specialization"`
	Qualifications  *string   `json:"qualifications"`
	ConsultationFee *float64  `json:"consultation_fee"`
}

// PublicUser is the account view returned on login.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

type RegisterInput struct {
	Email           string
	Password        string
	Name            string
	Role            string
	Specialization  string
	Qualifications  *string
	ConsultationFee *float64
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      PublicUser `json:"user"`
}

// specializations is the closed list the directory accepts, in display order.
var specializations = []string{
	"Dermatologist",
	"Cardiologist",
	"Neurologist",
	"Oncologist",
	"Gastroenterologist",
	"Pediatrician",
	"Orthopedic Surgeon",
	"General Physician",
	"ENT Specialist",
	"Ophthalmologist",
	"Psychiatrist",
	"Gynecologist",
	"Urologist",
	"Dentist",
	"Pulmonologist",
}

// Specializations returns a copy of the directory's specialization list.
func Specializations() []string {
	out := make([]string, len(specializations))
	copy(out, specializations)
	return out
}

// IsSpecialization reports an exact, case-sensitive match against the list.
func IsSpecialization(s string) bool {
	for _, v := range specializations {
		if v == s {
			return true
		}
	}
	return false
}
