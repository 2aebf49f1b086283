package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Env:                     "test",
		JWTSecret:               testSecret,
		JWTIssuer:               "mediconnect",
		TokenTTL:                time.Hour,
		BcryptCost:              4,
		CORSOrigins:             []string{"http://localhost:3000"},
		RateLimitRPS:            1000,
		RateLimitBurst:          1000,
		RequestTimeout:          5 * time.Second,
		BodyLimit:               "1M",
		AppointmentStatusPolicy: config.StatusPolicyOpen,
	}
}

// newTestServer builds the full stack without a database; every request used
// here is answered before a connection would be acquired.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	tel, err := telemetry.NewTelemetryProvider(context.Background(), telemetry.TelemetryConfig{})
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	e, err := newServer(testConfig(), zerolog.Nop(), nil, tel)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("expected timestamp in health response")
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected request id header")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t)
	serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

var protectedRoutes = []struct {
	method, path string
}{
	{http.MethodGet, "/api/appointments"},
	{http.MethodPost, "/api/appointments"},
	{http.MethodPatch, "/api/appointments/" + uuid.NewString()},
	{http.MethodGet, "/api/prescriptions"},
	{http.MethodPost, "/api/prescriptions"},
	{http.MethodGet, "/api/donations"},
	{http.MethodPost, "/api/donations"},
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	e := newTestServer(t)
	expired, _, err := auth.NewTokenManager(testSecret, "mediconnect", -time.Minute).
		Issue(auth.Caller{ID: uuid.New(), Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	foreign, _, err := auth.NewTokenManager(strings.Repeat("x", 32), "mediconnect", time.Hour).
		Issue(auth.Caller{ID: uuid.New(), Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	headers := map[string]string{
		"missing":      "",
		"no scheme":    "abc.def.ghi",
		"garbage":      "Bearer not-a-token",
		"expired":      "Bearer " + expired,
		"wrong key":    "Bearer " + foreign,
		"empty bearer": "Bearer ",
	}

	for _, route := range protectedRoutes {
		for name, header := range headers {
			t.Run(route.method+" "+route.path+" "+name, func(t *testing.T) {
				req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				if header != "" {
					req.Header.Set(echo.HeaderAuthorization, header)
				}
				rec := serve(e, req)
				if rec.Code != http.StatusUnauthorized {
					t.Errorf("expected 401, got %d: %s", rec.Code, rec.Body.String())
				}
			})
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPatch)
	rec := serve(e, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Errorf("unexpected allow-origin %q", got)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPatch) {
		t.Error("expected PATCH in allowed methods")
	}
}

func TestBodyLimit(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(strings.Repeat("a", 2<<20)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}

	// Without Content-Length the limit trips while the handler decodes JSON.
	body := `{"email":"` + strings.Repeat("a", 2<<20) + `@example.com","password":"pw"}`
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.ContentLength = -1
	rec = serve(e, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("chunked: expected 413, got %d: %.200s", rec.Code, rec.Body.String())
	}
}

func TestNewServer_RejectsUnknownStatusPolicy(t *testing.T) {
	tel, err := telemetry.NewTelemetryProvider(context.Background(), telemetry.TelemetryConfig{})
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	defer tel.Shutdown(context.Background())

	cfg := testConfig()
	cfg.AppointmentStatusPolicy = "strict"
	if _, err := newServer(cfg, zerolog.Nop(), nil, tel); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
