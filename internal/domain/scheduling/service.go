package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

var tracer = otel.Tracer("github.com/mediconnect/mediconnect/internal/domain/scheduling")

// StatusPolicy decides who may change an appointment's status.
type StatusPolicy string

const (
	// PolicyOpen lets any authenticated caller update any appointment.
	PolicyOpen StatusPolicy = "open"
	// PolicyOwner restricts updates to the appointment's patient, its doctor
	// and admins.
	PolicyOwner StatusPolicy = "owner"
)

func ParseStatusPolicy(raw string) (StatusPolicy, error) {
	switch p := StatusPolicy(raw); p {
	case PolicyOpen, PolicyOwner:
		return p, nil
	}
	return "", fmt.Errorf("unknown appointment status policy %q", raw)
}

type Service struct {
	appointments AppointmentRepository
	policy       StatusPolicy
	events       telemetry.EventRecorder
	logger       zerolog.Logger
}

func NewService(appointments AppointmentRepository, policy StatusPolicy, events telemetry.EventRecorder, logger zerolog.Logger) *Service {
	if events == nil {
		events = telemetry.Nop{}
	}
	return &Service{
		appointments: appointments,
		policy:       policy,
		events:       events,
		logger:       logger.With().Str("component", "scheduling").Logger(),
	}
}

// ListAppointments returns the appointments caller may see, newest first.
func (s *Service) ListAppointments(ctx context.Context, caller auth.Caller) ([]*Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.ListAppointments")
	defer span.End()

	scope, err := auth.ScopeFor(caller, auth.Appointments)
	if err != nil {
		return nil, err
	}
	return s.appointments.List(ctx, scope)
}

// CreateAppointment books an appointment with caller as the patient.
func (s *Service) CreateAppointment(ctx context.Context, caller auth.Caller, doctorID uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.CreateAppointment")
	defer span.End()

	a := &Appointment{
		PatientID: caller.ID,
		DoctorID:  doctorID,
		DateTime:  at,
		Notes:     notes,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("appointment.id", a.ID.String()))
	s.events.RecordEvent("appointment_created")
	return a, nil
}

func (s *Service) UpdateAppointmentStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, rawStatus string) error {
	ctx, span := tracer.Start(ctx, "scheduling.UpdateAppointmentStatus")
	defer span.End()

	status, err := ParseStatus(rawStatus)
	if err != nil {
		return ErrInvalidStatus
	}

	var scope auth.Scope
	if s.policy == PolicyOwner {
		if scope, err = auth.ScopeFor(caller, auth.Appointments); err != nil {
			return err
		}
	}

	if err := s.appointments.UpdateStatus(ctx, id, status, scope); err != nil {
		return err
	}
	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("status", string(status)).
		Str("caller_id", caller.ID.String()).
		Msg("appointment status updated")
	s.events.RecordEvent("appointment_status_updated")
	return nil
}
