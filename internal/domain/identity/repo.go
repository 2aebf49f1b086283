package identity

import (
	"context"
)

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	CreateDoctorProfile(ctx context.Context, p *DoctorProfile) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	ListDoctorsBySpecialization(ctx context.Context, specialization string) ([]*DoctorSummary, error)
}
