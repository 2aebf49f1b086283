package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
)

type accountRepoPG struct {
	pool db.Querier
}

func NewAccountRepo(pool db.Querier) AccountRepository {
	return &accountRepoPG{pool: pool}
}

func (r *accountRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO accounts (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.Email, a.PasswordHash, a.Name, string(a.Role),
	).Scan(&a.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return apperr.Storage("accounts.create", err)
	}
	return nil
}

func (r *accountRepoPG) CreateDoctorProfile(ctx context.Context, p *DoctorProfile) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_profiles (id, account_id, specialization, qualifications, consultation_fee)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.AccountID, p.Specialization, p.Qualifications, p.ConsultationFee,
	)
	if err != nil {
		return apperr.Storage("doctor_profiles.create", err)
	}
	return nil
}

func (r *accountRepoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var (
		a    Account
		role string
	)
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM accounts WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Storage("accounts.get_by_email", err)
	}
	a.Role = auth.Role(role)
	return &a, nil
}

func (r *accountRepoPG) ListDoctorsBySpecialization(ctx context.Context, specialization string) ([]*DoctorSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.name, a.email, d.specialization, d.qualifications, d.consultation_fee
		FROM accounts a
		JOIN doctor_profiles d ON d.account_id = a.id
		WHERE a.role = 'doctor' AND d.specialization = $1
		ORDER BY a.name`, specialization,
	)
	if err != nil {
		return nil, apperr.Storage("doctors.list", err)
	}
	defer rows.Close()

	var items []*DoctorSummary
	for rows.Next() {
		var d DoctorSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Specialization, &d.Qualifications, &d.ConsultationFee); err != nil {
			return nil, apperr.Storage("doctors.scan", err)
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("doctors.list", err)
	}
	return items, nil
}
