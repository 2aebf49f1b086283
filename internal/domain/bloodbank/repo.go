package bloodbank

import (
	"context"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type DonationRepository interface {
	CreateDonation(ctx context.Context, d *Donation) error
	ListDonations(ctx context.Context, scope auth.Scope) ([]*Donation, error)
	// AddUnits increments the stock of bloodType, creating its row on first use.
	AddUnits(ctx context.Context, bloodType string, units int) error
	Inventory(ctx context.Context) ([]*InventoryItem, error)
}
