package identity

import (
	"errors"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

var (
	ErrInvalidRole            = apperr.New(apperr.KindValidation, "Invalid role. Must be one of: "+auth.RoleList())
	ErrSpecializationRequired = apperr.New(apperr.KindValidation, "Specialization is required for doctors")
	ErrDuplicateEmail         = apperr.New(apperr.KindValidation, "User already exists")
	ErrInvalidCredentials     = apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
	ErrInvalidSpecialization  = apperr.New(apperr.KindValidation, "Invalid specialization")

	// ErrAccountNotFound never leaves the package; Login turns it into
	// ErrInvalidCredentials.
	ErrAccountNotFound = errors.New("account not found")
)

var errNegativeFee = apperr.Validation("validation failed", "consultationFee must be at least 0")

func validationMissing(email, password, name string) error {
	var fields []string
	if email == "" {
		fields = append(fields, "email is required")
	}
	if password == "" {
		fields = append(fields, "password is required")
	}
	if name == "" {
		fields = append(fields, "name is required")
	}
	return apperr.Validation("validation failed", fields...)
}
