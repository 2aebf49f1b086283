package scheduling

import (
	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

var (
	ErrAppointmentNotFound = apperr.New(apperr.KindNotFound, "Appointment not found")
	ErrInvalidStatus       = apperr.New(apperr.KindValidation, "Invalid status. Must be one of: "+statusList())
	ErrInvalidDateTime     = apperr.Validation("validation failed", "dateTime must be an ISO 8601 date and time")
)
