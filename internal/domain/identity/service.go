package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

var tracer = otel.Tracer("github.com/mediconnect/mediconnect/internal/domain/identity")

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(caller auth.Caller) (string, time.Time, error)
}

type Service struct {
	accounts AccountRepository
	tx       db.Transactor
	hasher   PasswordHasher
	tokens   TokenIssuer
	events   telemetry.EventRecorder
	logger   zerolog.Logger

	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

func NewService(accounts AccountRepository, tx db.Transactor, hasher PasswordHasher, tokens TokenIssuer,
	events telemetry.EventRecorder, logger zerolog.Logger) (*Service, error) {
	dummy, err := hasher.Hash("mediconnect-login-timing-guard")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	if events == nil {
		events = telemetry.Nop{}
	}
	return &Service{
		accounts:  accounts,
		tx:        tx,
		hasher:    hasher,
		tokens:    tokens,
		events:    events,
		logger:    logger.With().Str("component", "identity").Logger(),
		dummyHash: dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and, for doctors, its profile in one
// transaction. The specialization is not checked against the directory list.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	ctx, span := tracer.Start(ctx, "identity.Register")
	defer span.End()

	role, err := auth.ParseRole(in.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, fmt.Errorf("register: %w", validationMissing(email, in.Password, name))
	}

	var profile *DoctorProfile
	if role == auth.RoleDoctor {
		spec := strings.TrimSpace(in.Specialization)
		if spec == "" {
			return nil, ErrSpecializationRequired
		}
		if in.ConsultationFee != nil && *in.ConsultationFee < 0 {
			return nil, fmt.Errorf("register: %w", errNegativeFee)
		}
		if !IsSpecialization(spec) {
			s.logger.Warn().Str("specialization", spec).Msg("doctor registered with unlisted specialization")
		}
		profile = &DoctorProfile{Specialization: spec, Qualifications: in.Qualifications, ConsultationFee: in.ConsultationFee}
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acct := &Account{Email: email, PasswordHash: hash, Name: name, Role: role}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, acct); err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		profile.AccountID = acct.ID
		return s.accounts.CreateDoctorProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.events.RecordEvent("account_registered")
	return acct, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error after the same amount of work.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := tracer.Start(ctx, "identity.Login")
	defer span.End()

	email = normalizeEmail(email)
	acct, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		_, _ = s.hasher.Verify(s.dummyHash, password)
		return nil, s.loginFailed(email)
	case err != nil:
		return nil, err
	}

	ok, err := s.hasher.Verify(acct.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, s.loginFailed(email)
	}

	token, expiresAt, err := s.tokens.Issue(auth.Caller{ID: acct.ID, Role: acct.Role})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      PublicUser{ID: acct.ID, Name: acct.Name, Email: acct.Email, Role: acct.Role},
	}, nil
}

func (s *Service) loginFailed(email string) error {
	s.logger.Info().Str("email", email).Msg("login failed")
	s.events.RecordEvent("login_failed")
	return ErrInvalidCredentials
}

// DoctorDirectory lists doctors whose profile matches specialization exactly.
func (s *Service) DoctorDirectory(ctx context.Context, specialization string) ([]*DoctorSummary, error) {
	if !IsSpecialization(specialization) {
		return nil, ErrInvalidSpecialization
	}
	doctors, err := s.accounts.ListDoctorsBySpecialization(ctx, specialization)
	if err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = []*DoctorSummary{}
	}
	return doctors, nil
}
