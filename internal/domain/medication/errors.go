package medication

import (
	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

var ErrDoctorsOnly = apperr.New(apperr.KindForbidden, "Only doctors can create prescriptions")
