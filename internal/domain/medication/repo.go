package medication

import (
	"context"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	List(ctx context.Context, scope auth.Scope) ([]*Prescription, error)
}
