package bloodbank

import (
	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

var (
	ErrDonorsOnly       = apperr.New(apperr.KindForbidden, "Only donors can schedule donations")
	ErrInvalidBloodType = apperr.New(apperr.KindValidation, "Invalid blood type. Must be one of: "+bloodTypeList())
	ErrInvalidAmount    = apperr.New(apperr.KindValidation, "amount_ml must be between 1 and 2000")
)
