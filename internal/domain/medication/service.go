package medication

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

var tracer = otel.Tracer("github.com/mediconnect/mediconnect/internal/domain/medication")

type Service struct {
	prescriptions PrescriptionRepository
	events        telemetry.EventRecorder
	logger        zerolog.Logger
}

func NewService(prescriptions PrescriptionRepository, events telemetry.EventRecorder, logger zerolog.Logger) *Service {
	if events == nil {
		events = telemetry.Nop{}
	}
	return &Service{
		prescriptions: prescriptions,
		events:        events,
		logger:        logger.With().Str("component", "medication").Logger(),
	}
}

func (s *Service) ListPrescriptions(ctx context.Context, caller auth.Caller) ([]*Prescription, error) {
	ctx, span := tracer.Start(ctx, "medication.ListPrescriptions")
	defer span.End()

	scope, err := auth.ScopeFor(caller, auth.Prescriptions)
	if err != nil {
		return nil, err
	}
	return s.prescriptions.List(ctx, scope)
}

// CreatePrescription records a prescription authored by caller, who must be a
// doctor.
func (s *Service) CreatePrescription(ctx context.Context, caller auth.Caller, in PrescriptionInput) (*Prescription, error) {
	ctx, span := tracer.Start(ctx, "medication.CreatePrescription")
	defer span.End()

	if caller.Role != auth.RoleDoctor {
		return nil, ErrDoctorsOnly
	}

	p := &Prescription{
		PatientID:   in.PatientID,
		DoctorID:    caller.ID,
		Diagnosis:   in.Diagnosis,
		Medications: in.Medications,
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("prescription_id", p.ID.String()).
		Str("doctor_id", p.DoctorID.String()).
		Msg("prescription created")
	s.events.RecordEvent("prescription_created")
	return p, nil
}
