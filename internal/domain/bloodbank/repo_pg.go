package bloodbank

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
)

type donationRepoPG struct {
	pool db.Querier
}

func NewDonationRepo(pool db.Querier) DonationRepository {
	return &donationRepoPG{pool: pool}
}

func (r *donationRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *donationRepoPG) CreateDonation(ctx context.Context, d *Donation) error {
	d.ID = uuid.New()
	d.Status = DonationScheduled
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO blood_donations (id, donor_id, blood_type, amount_ml, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING donation_date`,
		d.ID, d.DonorID, d.BloodType, d.AmountML, string(d.Status),
	).Scan(&d.DonationDate)
	if err != nil {
		return apperr.Storage("blood_donations.create", err)
	}
	return nil
}

func (r *donationRepoPG) ListDonations(ctx context.Context, scope auth.Scope) ([]*Donation, error) {
	query := `SELECT id, donor_id, blood_type, amount_ml, donation_date, status FROM blood_donations`
	where, args := scope.Where(1)
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY donation_date DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("blood_donations.list", err)
	}
	defer rows.Close()

	items := []*Donation{}
	for rows.Next() {
		var (
			d      Donation
			status string
		)
		if err := rows.Scan(&d.ID, &d.DonorID, &d.BloodType, &d.AmountML, &d.DonationDate, &status); err != nil {
			return nil, apperr.Storage("blood_donations.scan", err)
		}
		d.Status = DonationStatus(status)
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("blood_donations.list", err)
	}
	return items, nil
}

func (r *donationRepoPG) AddUnits(ctx context.Context, bloodType string, units int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_inventory (blood_type, units) VALUES ($1, $2)
		ON CONFLICT (blood_type) DO UPDATE SET units = blood_inventory.units + EXCLUDED.units`,
		bloodType, units,
	)
	if err != nil {
		return apperr.Storage("blood_inventory.add_units", err)
	}
	return nil
}

func (r *donationRepoPG) Inventory(ctx context.Context) ([]*InventoryItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT blood_type, units FROM blood_inventory ORDER BY blood_type`)
	if err != nil {
		return nil, apperr.Storage("blood_inventory.list", err)
	}
	defer rows.Close()

	items := []*InventoryItem{}
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.BloodType, &it.Units); err != nil {
			return nil, apperr.Storage("blood_inventory.scan", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("blood_inventory.list", err)
	}
	return items, nil
}
