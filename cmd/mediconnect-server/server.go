package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/domain/bloodbank"
	"github.com/mediconnect/mediconnect/internal/domain/identity"
	"github.com/mediconnect/mediconnect/internal/domain/medication"
	"github.com/mediconnect/mediconnect/internal/domain/scheduling"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
	"github.com/mediconnect/mediconnect/internal/platform/middleware"
	"github.com/mediconnect/mediconnect/internal/platform/telemetry"
)

// newServer wires services, middleware and routes. The pool is only touched
// when a request needs the database.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, tel *telemetry.TelemetryProvider) (*echo.Echo, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	txm := db.NewTxManager(pool)

	identitySvc, err := identity.NewService(
		identity.NewAccountRepo(pool),
		txm,
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		tel,
		logger,
	)
	if err != nil {
		return nil, err
	}

	policy, err := scheduling.ParseStatusPolicy(cfg.AppointmentStatusPolicy)
	if err != nil {
		return nil, err
	}
	if policy == scheduling.PolicyOpen {
		logger.Warn().Msg("appointment status updates are open to every authenticated caller; set APPOINTMENT_STATUS_POLICY=owner to restrict them")
	}
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepo(pool), policy, tel, logger)
	medicationSvc := medication.NewService(medication.NewPrescriptionRepo(pool), tel, logger)
	bloodbankSvc := bloodbank.NewService(bloodbank.NewDonationRepo(pool), txm, tel, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middleware.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger, cfg.IsDev())

	e.Use(middleware.RequestID())
	e.Use(tel.TracingMiddleware())
	e.Use(tel.MetricsMiddleware())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestGuard(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           10 * time.Minute,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"version":   version,
			"timestamp": time.Now().UTC(),
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", tel.PrometheusHandler())

	accessEvents := middleware.AuditRecorderFunc(func(entry middleware.AuditEntry) error {
		tel.RecordEvent(fmt.Sprintf("data_access_%s", entry.Action))
		return nil
	})

	// Token check comes first so rejected requests never take a connection.
	api := e.Group("/api",
		auth.JWTMiddleware(tokens),
		middleware.Audit(logger, accessEvents),
		db.ConnMiddleware(pool),
	)

	identity.NewHandler(identitySvc).RegisterRoutes(api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)
	medication.NewHandler(medicationSvc).RegisterRoutes(api)
	bloodbank.NewHandler(bloodbankSvc).RegisterRoutes(api)

	return e, nil
}
