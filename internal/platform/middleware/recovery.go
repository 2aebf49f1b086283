package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

// Recovery converts a handler panic into a 500 and logs the stack with the
// request id and caller.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				ev := logger.Error().
					Str("request_id", requestID(c)).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack())
				if caller, ok := auth.CallerFromContext(c.Request().Context()); ok {
					ev = ev.Str("caller_id", caller.ID.String())
				}
				ev.Msg("panic recovered")

				err = &apperr.Error{
					Kind:    apperr.KindStorage,
					Message: "Something went wrong!",
					Op:      "panic",
					Err:     fmt.Errorf("%v", r),
				}
			}()
			return next(c)
		}
	}
}
