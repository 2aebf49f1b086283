package scheduling

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type AppointmentService interface {
	ListAppointments(ctx context.Context, caller auth.Caller) ([]*Appointment, error)
	CreateAppointment(ctx context.Context, caller auth.Caller, doctorID uuid.UUID, at time.Time, notes *string) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, status string) error
}

type Handler struct {
	svc AppointmentService
}

func NewHandler(svc AppointmentService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PATCH("/:id", h.UpdateStatus)
}

type createRequest struct {
	DoctorID string  `json:"doctorId" validate:"required"`
	DateTime string  `json:"dateTime" validate:"required"`
	Notes    *string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

var (
	errBadBody         = apperr.Validation("invalid request body")
	errInvalidDoctorID = apperr.Validation("validation failed", "doctorId must be a valid UUID")
)

// dateTimeLayouts are tried in order. Values without a zone are taken as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDateTime(raw string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

func (h *Handler) List(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}
	items, err := h.svc.ListAppointments(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BindFailure(err, errBadBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return errInvalidDoctorID
	}
	at, err := parseDateTime(req.DateTime)
	if err != nil {
		return err
	}

	a, err := h.svc.CreateAppointment(c.Request().Context(), caller, doctorID, at, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Appointment created successfully",
		"id":      a.ID,
	})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}

	// A malformed id cannot match any row.
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ErrAppointmentNotFound
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BindFailure(err, errBadBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.svc.UpdateAppointmentStatus(c.Request().Context(), caller, id, req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment updated successfully"})
}
