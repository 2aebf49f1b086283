package bloodbank

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/middleware"
)

func newTestServer() (*echo.Echo, *mockDonationRepo) {
	svc, repo := newTestService()
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop(), false)
	NewHandler(svc).RegisterRoutes(e.Group("/api"))
	return e, repo
}

func request(e *echo.Echo, caller *auth.Caller, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if caller != nil {
		req = req.WithContext(auth.WithCaller(req.Context(), *caller))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ScheduleDonation(t *testing.T) {
	e, repo := newTestServer()

	rec := request(e, &donor, http.MethodPost, "/api/donations", `{"bloodType":"AB-","amount_ml":1000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Message    string    `json:"message"`
		ID         uuid.UUID `json:"id"`
		UnitsAdded int       `json:"units_added"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message != "Blood donation scheduled successfully" || res.UnitsAdded != 2 || res.ID == uuid.Nil {
		t.Errorf("unexpected response: %+v", res)
	}
	if repo.inventory["AB-"] != 2 {
		t.Errorf("expected 2 AB- units, got %d", repo.inventory["AB-"])
	}
}

func TestHandler_ScheduleDonation_Errors(t *testing.T) {
	doctor := auth.Caller{ID: uuid.New(), Role: auth.RoleDoctor}
	tests := []struct {
		name    string
		caller  auth.Caller
		body    string
		code    int
		message string
	}{
		{"non donor", doctor, `{"bloodType":"A+","amount_ml":450}`, http.StatusForbidden, "Only donors can schedule donations"},
		{"missing amount", donor, `{"bloodType":"A+"}`, http.StatusBadRequest, "validation failed"},
		{"negative amount", donor, `{"bloodType":"A+","amount_ml":-1}`, http.StatusBadRequest, "validation failed"},
		{"unknown blood type", donor, `{"bloodType":"Z","amount_ml":450}`, http.StatusBadRequest, "Invalid blood type. Must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-"},
		{"amount beyond int4", donor, `{"bloodType":"A+","amount_ml":3000000000}`, http.StatusBadRequest, "validation failed"},
		{"fractional amount", donor, `{"bloodType":"A+","amount_ml":450.5}`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo := newTestServer()
			caller := tt.caller
			rec := request(e, &caller, http.MethodPost, "/api/donations", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			var body struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, body.Message)
			}
			if len(repo.donations) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestHandler_Inventory_Public(t *testing.T) {
	e, _ := newTestServer()
	request(e, &donor, http.MethodPost, "/api/donations", `{"bloodType":"O+","amount_ml":900}`)

	rec := request(e, nil, http.MethodGet, "/api/donations/inventory", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []InventoryItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0] != (InventoryItem{BloodType: "O+", Units: 2}) {
		t.Errorf("unexpected inventory: %+v", items)
	}
}

func TestHandler_ListDonations(t *testing.T) {
	e, _ := newTestServer()
	request(e, &donor, http.MethodPost, "/api/donations", `{"bloodType":"O+","amount_ml":450}`)

	rec := request(e, &donor, http.MethodGet, "/api/donations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []Donation
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].DonorID != donor.ID {
		t.Errorf("unexpected donations: %+v", items)
	}

	patient := auth.Caller{ID: uuid.New(), Role: auth.RolePatient}
	if rec := request(e, &patient, http.MethodGet, "/api/donations", ""); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for patient, got %d", rec.Code)
	}
}
