package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	List(ctx context.Context, scope auth.Scope) ([]*Appointment, error)
	// UpdateStatus returns ErrAppointmentNotFound when no row matches id
	// within scope.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, scope auth.Scope) error
}
