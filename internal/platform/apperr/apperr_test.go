package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindInvalidCredentials, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindTooLarge, http.StatusRequestEntityTooLarge},
		{KindStorage, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s.Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	errNotFound := New(KindNotFound, "Appointment not found")
	wrapped := fmt.Errorf("update status: %w", errNotFound)

	if !errors.Is(wrapped, errNotFound) {
		t.Error("expected errors.Is to match the sentinel")
	}
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("expected not_found, got %s", KindOf(wrapped))
	}
}

func TestStorage(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("appointments.list", cause)

	if !errors.Is(err, cause) {
		t.Error("expected storage error to unwrap to its cause")
	}
	if err.Message != "Server error" {
		t.Errorf("unexpected client message %q", err.Message)
	}
	if got := err.Error(); got != "appointments.list: Server error: connection reset" {
		t.Errorf("unexpected Error() %q", got)
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	if KindOf(errors.New("boom")) != KindStorage {
		t.Error("expected unclassified errors to be storage failures")
	}
}

func TestValidationFields(t *testing.T) {
	err := Validation("validation failed", "email is required", "role is required")
	if got := err.Error(); got != "validation failed (email is required; role is required)" {
		t.Errorf("unexpected Error() %q", got)
	}
}

func TestBindFailure(t *testing.T) {
	invalid := Validation("invalid request body")
	tooLarge := New(KindTooLarge, "request body exceeds 16 bytes")

	if got := BindFailure(errors.New("unexpected EOF"), invalid); got != invalid {
		t.Errorf("decode error: expected invalid body error, got %v", got)
	}
	if got := BindFailure(tooLarge, invalid); got != tooLarge {
		t.Errorf("expected size error to pass through, got %v", got)
	}
	if got := BindFailure(fmt.Errorf("bind: %w", tooLarge), invalid); KindOf(got).Status() != http.StatusRequestEntityTooLarge {
		t.Errorf("expected wrapped size error to give 413, got %v", got)
	}
}
