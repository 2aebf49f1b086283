package auth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

// Resource names a role-scoped table.
type Resource int

const (
	Appointments Resource = iota
	Prescriptions
	Donations
)

func (r Resource) String() string {
	switch r {
	case Appointments:
		return "appointments"
	case Prescriptions:
		return "prescriptions"
	case Donations:
		return "donations"
	}
	return fmt.Sprintf("resource(%d)", int(r))
}

// ErrUnauthorizedRole is returned when a role has no view of a resource.
var ErrUnauthorizedRole = apperr.New(apperr.KindForbidden, "Unauthorized role")

// Scope is the row filter a caller is entitled to on one resource. The zero
// Scope is unrestricted.
type Scope struct {
	Column  string
	OwnerID uuid.UUID
}

func (s Scope) Unrestricted() bool { return s.Column == "" }

// Where renders the predicate for placeholder $n, or "" when unrestricted.
func (s Scope) Where(n int) (string, []any) {
	if s.Unrestricted() {
		return "", nil
	}
	return fmt.Sprintf("%s = $%d", s.Column, n), []any{s.OwnerID}
}

// ScopeFor decides which rows of res caller may see. The scope column always
// carries the caller's own id and never anything from the request.
func ScopeFor(caller Caller, res Resource) (Scope, error) {
	switch caller.Role {
	case RoleAdmin:
		return Scope{}, nil
	case RoleDoctor:
		if res == Appointments || res == Prescriptions {
			return Scope{Column: "doctor_id", OwnerID: caller.ID}, nil
		}
	case RolePatient:
		if res == Appointments || res == Prescriptions {
			return Scope{Column: "patient_id", OwnerID: caller.ID}, nil
		}
	case RoleDonor:
		if res == Donations {
			return Scope{Column: "donor_id", OwnerID: caller.ID}, nil
		}
	}
	return Scope{}, ErrUnauthorizedRole
}
