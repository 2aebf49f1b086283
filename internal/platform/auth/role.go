package auth

import (
	"fmt"
	"strings"
)

// Role is the single role an account holds. It is fixed at registration.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleDonor   Role = "donor"
)

// Roles lists every valid role in registration order.
var Roles = []Role{RoleDoctor, RolePatient, RoleDonor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleDonor:
		return true
	}
	return false
}

// ParseRole converts raw into a Role, rejecting anything outside the fixed set.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// RoleList renders the valid roles for client-facing messages.
func RoleList() string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
