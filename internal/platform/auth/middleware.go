package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

type contextKey string

const CallerKey contextKey = "caller"

// Caller is the verified identity behind a request.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// Verifier turns a bearer token into a Caller.
type Verifier interface {
	Verify(token string) (Caller, error)
}

var (
	errMissingHeader = apperr.New(apperr.KindUnauthenticated, "missing authorization header")
	errBadFormat     = apperr.New(apperr.KindUnauthenticated, "invalid authorization format")
	errBadToken      = apperr.New(apperr.KindUnauthenticated, "invalid or expired token")
)

// JWTMiddleware rejects requests without a valid bearer token and stores the
// verified Caller in the request context.
func JWTMiddleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if AuthSkipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return errMissingHeader
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return errBadFormat
			}

			caller, err := v.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return errBadToken
			}

			c.SetRequest(c.Request().WithContext(WithCaller(c.Request().Context(), caller)))
			return next(c)
		}
	}
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(Caller)
	return caller, ok
}

// MustCaller returns the authenticated caller or an Unauthenticated error when
// the route was reached without JWTMiddleware.
func MustCaller(ctx context.Context) (Caller, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return Caller{}, errMissingHeader
	}
	return caller, nil
}
