package auth

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

// RequireRole returns middleware that admits only callers holding one of roles.
// Admin gets no implicit pass.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return RequireRoleOr(
		apperr.New(apperr.KindForbidden, fmt.Sprintf("required role: %s", strings.Join(names, " or "))),
		roles...,
	)
}

// RequireRoleOr is RequireRole with a caller-chosen rejection error.
func RequireRoleOr(denied error, roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := MustCaller(c.Request().Context())
			if err != nil {
				return err
			}
			for _, r := range roles {
				if caller.Role == r {
					return next(c)
				}
			}
			return denied
		}
	}
}
