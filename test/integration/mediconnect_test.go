//go:build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/domain/bloodbank"
	"github.com/mediconnect/mediconnect/internal/domain/identity"
	"github.com/mediconnect/mediconnect/internal/domain/medication"
	"github.com/mediconnect/mediconnect/internal/domain/scheduling"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
)

func TestMigrations_Idempotent(t *testing.T) {
	n, err := db.NewMigrator(globalPool, findMigrationsDir()).Up(context.Background())
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no pending migrations, applied %d", n)
	}
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), rec)

	if err := db.HealthHandler(globalPool)(c); err != nil {
		t.Fatalf("HealthHandler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestIdentity_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)

	email := "Asha." + uuid.NewString()[:8] + "@Example.com"
	fee := 500.0
	acct, err := s.identity.Register(ctx, identity.RegisterInput{
		Email:           email,
		Password:        "Heart@2024",
		Name:            "Dr. Asha",
		Role:            "doctor",
		Specialization:  "Cardiologist",
		ConsultationFee: &fee,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err = s.identity.Register(ctx, identity.RegisterInput{
		Email:    strings.ToUpper(email),
		Password: "Other@2024",
		Name:     "Someone",
		Role:     "patient",
	})
	if !errors.Is(err, identity.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	res, err := s.identity.Login(ctx, email, "Heart@2024")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	caller, err := s.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if caller.ID != acct.ID || caller.Role != auth.RoleDoctor {
		t.Errorf("token identity mismatch: %+v", caller)
	}

	if _, err := s.identity.Login(ctx, email, "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.identity.Login(ctx, "nobody@example.com", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	doctors, err := s.identity.DoctorDirectory(ctx, "Cardiologist")
	if err != nil {
		t.Fatalf("DoctorDirectory: %v", err)
	}
	found := false
	for _, d := range doctors {
		if d.ID == acct.ID {
			found = true
			if d.ConsultationFee == nil || *d.ConsultationFee != fee {
				t.Errorf("unexpected fee %v", d.ConsultationFee)
			}
		}
	}
	if !found {
		t.Error("registered doctor missing from directory")
	}
}

func TestIdentity_DoctorWithoutSpecializationLeavesNoAccount(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)

	email := "nospec-" + uuid.NewString()[:8] + "@example.com"
	_, err := s.identity.Register(ctx, identity.RegisterInput{
		Email: email, Password: "Secret@123", Name: "Dr. None", Role: "doctor",
	})
	if !errors.Is(err, identity.ErrSpecializationRequired) {
		t.Fatalf("expected ErrSpecializationRequired, got %v", err)
	}

	var count int
	if err := globalPool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE email = $1`, email).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no account row, found %d", count)
	}
}

func TestIdentity_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)

	if _, err := s.identity.Seed(ctx); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	res, err := s.identity.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if res.Created != 0 {
		t.Errorf("expected nothing created on reseed, got %d", res.Created)
	}
}

func TestAppointments_Scoping(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)

	doctor := s.register(t, auth.RoleDoctor, "Neurologist")
	patient := s.register(t, auth.RolePatient, "")
	other := s.register(t, auth.RolePatient, "")
	donor := s.register(t, auth.RoleDonor, "")
	admin := auth.Caller{ID: uuid.New(), Role: auth.RoleAdmin}

	earlier, err := s.scheduling.CreateAppointment(ctx, patient, doctor.ID, time.Now().Add(24*time.Hour), nil)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	notes := "follow-up"
	later, err := s.scheduling.CreateAppointment(ctx, patient, doctor.ID, time.Now().Add(48*time.Hour), &notes)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	mine, err := s.scheduling.ListAppointments(ctx, patient)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != later.ID || mine[1].ID != earlier.ID {
		t.Fatalf("expected both appointments newest first, got %d", len(mine))
	}
	if mine[0].Status != scheduling.StatusScheduled {
		t.Errorf("expected scheduled status, got %q", mine[0].Status)
	}

	theirs, err := s.scheduling.ListAppointments(ctx, other)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("other patient sees %d appointments", len(theirs))
	}

	forDoctor, err := s.scheduling.ListAppointments(ctx, doctor)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(forDoctor) != 2 {
		t.Errorf("doctor expected 2 appointments, got %d", len(forDoctor))
	}

	all, err := s.scheduling.ListAppointments(ctx, admin)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(all) < 2 {
		t.Errorf("admin expected at least 2 appointments, got %d", len(all))
	}

	if _, err := s.scheduling.ListAppointments(ctx, donor); !errors.Is(err, auth.ErrUnauthorizedRole) {
		t.Errorf("donor: expected ErrUnauthorizedRole, got %v", err)
	}
}

func TestAppointments_StatusPolicies(t *testing.T) {
	ctx := context.Background()
	open := newServices(t, scheduling.PolicyOpen)
	owner := newServices(t, scheduling.PolicyOwner)

	doctor := open.register(t, auth.RoleDoctor, "Dermatologist")
	patient := open.register(t, auth.RolePatient, "")
	stranger := open.register(t, auth.RolePatient, "")

	appt, err := open.scheduling.CreateAppointment(ctx, patient, doctor.ID, time.Now().Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if err := open.scheduling.UpdateAppointmentStatus(ctx, stranger, appt.ID, "completed"); err != nil {
		t.Errorf("open policy: expected update to succeed, got %v", err)
	}
	if err := owner.scheduling.UpdateAppointmentStatus(ctx, stranger, appt.ID, "cancelled"); !errors.Is(err, scheduling.ErrAppointmentNotFound) {
		t.Errorf("owner policy stranger: expected not found, got %v", err)
	}
	if err := owner.scheduling.UpdateAppointmentStatus(ctx, doctor, appt.ID, "cancelled"); err != nil {
		t.Errorf("owner policy doctor: %v", err)
	}
	if err := open.scheduling.UpdateAppointmentStatus(ctx, patient, appt.ID, "rescheduled"); !errors.Is(err, scheduling.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if err := open.scheduling.UpdateAppointmentStatus(ctx, patient, uuid.New(), "completed"); !errors.Is(err, scheduling.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}

	list, err := open.scheduling.ListAppointments(ctx, patient)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(list) != 1 || list[0].Status != scheduling.StatusCancelled {
		t.Errorf("expected one cancelled appointment, got %+v", list)
	}
}

func TestPrescriptions(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)

	doctor := s.register(t, auth.RoleDoctor, "Pediatrician")
	patient := s.register(t, auth.RolePatient, "")
	other := s.register(t, auth.RolePatient, "")

	rx, err := s.medication.CreatePrescription(ctx, doctor, medication.PrescriptionInput{
		PatientID:   patient.ID,
		Diagnosis:   "Seasonal flu",
		Medications: "Paracetamol 500mg",
	})
	if err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}
	if rx.DoctorID != doctor.ID {
		t.Errorf("expected doctor id from caller, got %s", rx.DoctorID)
	}

	if _, err := s.medication.CreatePrescription(ctx, patient, medication.PrescriptionInput{
		PatientID: patient.ID, Diagnosis: "x", Medications: "y",
	}); !errors.Is(err, medication.ErrDoctorsOnly) {
		t.Errorf("patient create: expected ErrDoctorsOnly, got %v", err)
	}

	mine, err := s.medication.ListPrescriptions(ctx, patient)
	if err != nil {
		t.Fatalf("ListPrescriptions: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != rx.ID {
		t.Errorf("patient expected own prescription, got %d", len(mine))
	}

	theirs, err := s.medication.ListPrescriptions(ctx, other)
	if err != nil {
		t.Fatalf("ListPrescriptions: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("other patient sees %d prescriptions", len(theirs))
	}
}

func unitsOf(t *testing.T, s *services, bloodType string) int {
	t.Helper()
	inv, err := s.bloodbank.Inventory(context.Background())
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	for _, item := range inv {
		if item.BloodType == bloodType {
			return item.Units
		}
	}
	return 0
}

func TestDonations_UpdateInventory(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)
	donor := s.register(t, auth.RoleDonor, "")
	patient := s.register(t, auth.RolePatient, "")

	before := unitsOf(t, s, "AB-")

	d, units, err := s.bloodbank.ScheduleDonation(ctx, donor, "AB-", 900)
	if err != nil {
		t.Fatalf("ScheduleDonation: %v", err)
	}
	if units != 2 || d.Status != bloodbank.DonationScheduled {
		t.Errorf("unexpected result: units=%d status=%q", units, d.Status)
	}
	if _, units, err = s.bloodbank.ScheduleDonation(ctx, donor, "AB-", 449); err != nil || units != 0 {
		t.Errorf("small donation: units=%d err=%v", units, err)
	}
	if got := unitsOf(t, s, "AB-"); got != before+2 {
		t.Errorf("expected %d units, got %d", before+2, got)
	}

	if _, _, err := s.bloodbank.ScheduleDonation(ctx, donor, "C+", 450); !errors.Is(err, bloodbank.ErrInvalidBloodType) {
		t.Errorf("expected ErrInvalidBloodType, got %v", err)
	}
	if _, _, err := s.bloodbank.ScheduleDonation(ctx, patient, "AB-", 450); !errors.Is(err, bloodbank.ErrDonorsOnly) {
		t.Errorf("expected ErrDonorsOnly, got %v", err)
	}

	mine, err := s.bloodbank.ListDonations(ctx, donor)
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 donations, got %d", len(mine))
	}
	if _, err := s.bloodbank.ListDonations(ctx, patient); !errors.Is(err, auth.ErrUnauthorizedRole) {
		t.Errorf("patient list: expected ErrUnauthorizedRole, got %v", err)
	}
}

func TestDonations_FailedInsertLeavesInventoryUntouched(t *testing.T) {
	ctx := context.Background()
	s := newServices(t, scheduling.PolicyOpen)
	before := unitsOf(t, s, "B-")

	// Donor without an account row violates the donor_id foreign key.
	ghost := auth.Caller{ID: uuid.New(), Role: auth.RoleDonor}
	if _, _, err := s.bloodbank.ScheduleDonation(ctx, ghost, "B-", 1350); err == nil {
		t.Fatal("expected foreign key failure")
	}
	if got := unitsOf(t, s, "B-"); got != before {
		t.Errorf("inventory changed from %d to %d", before, got)
	}
}
