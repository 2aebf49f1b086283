package bloodbank

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

var tracer = otel.Tracer("github.com/mediconnect/mediconnect/internal/domain/bloodbank")

type Service struct {
	donations DonationRepository
	tx        db.Transactor
	events    telemetry.EventRecorder
	logger    zerolog.Logger
}

func NewService(donations DonationRepository, tx db.Transactor, events telemetry.EventRecorder, logger zerolog.Logger) *Service {
	if events == nil {
		events = telemetry.Nop{}
	}
	return &Service{
		donations: donations,
		tx:        tx,
		events:    events,
		logger:    logger.With().Str("component", "bloodbank").Logger(),
	}
}

func (s *Service) ListDonations(ctx context.Context, caller auth.Caller) ([]*Donation, error) {
	ctx, span := tracer.Start(ctx, "bloodbank.ListDonations")
	defer span.End()

	scope, err := auth.ScopeFor(caller, auth.Donations)
	if err != nil {
		return nil, err
	}
	return s.donations.ListDonations(ctx, scope)
}

// ScheduleDonation records a donation by caller and credits the inventory with
// the whole units it yields. Both writes commit or neither does.
func (s *Service) ScheduleDonation(ctx context.Context, caller auth.Caller, bloodType string, amountML int) (*Donation, int, error) {
	ctx, span := tracer.Start(ctx, "bloodbank.ScheduleDonation")
	defer span.End()

	if caller.Role != auth.RoleDonor {
		return nil, 0, ErrDonorsOnly
	}
	if !IsBloodType(bloodType) {
		return nil, 0, ErrInvalidBloodType
	}
	if amountML <= 0 || amountML > MaxDonationML {
		return nil, 0, ErrInvalidAmount
	}

	d := &Donation{DonorID: caller.ID, BloodType: bloodType, AmountML: amountML}
	units := UnitsFor(amountML)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.donations.CreateDonation(ctx, d); err != nil {
			return err
		}
		return s.donations.AddUnits(ctx, bloodType, units)
	})
	if err != nil {
		return nil, 0, err
	}

	span.SetAttributes(
		attribute.String("blood.type", bloodType),
		attribute.Int("blood.units", units),
	)
	s.logger.Info().
		Str("donation_id", d.ID.String()).
		Str("blood_type", bloodType).
		Int("units_added", units).
		Msg("donation scheduled")
	s.events.RecordEvent("donation_scheduled")
	return d, units, nil
}

// Inventory returns the stock of every blood type seen so far.
func (s *Service) Inventory(ctx context.Context) ([]*InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "bloodbank.Inventory")
	defer span.End()
	return s.donations.Inventory(ctx)
}
