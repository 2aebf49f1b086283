package medication

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type PrescriptionService interface {
	ListPrescriptions(ctx context.Context, caller auth.Caller) ([]*Prescription, error)
	CreatePrescription(ctx context.Context, caller auth.Caller, in PrescriptionInput) (*Prescription, error)
}

type Handler struct {
	svc PrescriptionService
}

func NewHandler(svc PrescriptionService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/prescriptions")
	g.GET("", h.List)
	g.POST("", h.Create, auth.RequireRoleOr(ErrDoctorsOnly, auth.RoleDoctor))
}

type createRequest struct {
	PatientID   string `json:"patientId" validate:"required"`
	Diagnosis   string `json:"diagnosis" validate:"required"`
	Medications string `json:"medications" validate:"required"`
}

var (
	errBadBody          = apperr.Validation("invalid request body")
	errInvalidPatientID = apperr.Validation("validation failed", "patientId must be a valid UUID")
)

func (h *Handler) List(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}
	items, err := h.svc.ListPrescriptions(c.Request().Context(), caller)
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
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return errInvalidPatientID
	}

	p, err := h.svc.CreatePrescription(c.Request().Context(), caller, PrescriptionInput{
		PatientID:   patientID,
		Diagnosis:   req.Diagnosis,
		Medications: req.Medications,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Prescription created successfully",
		"id":      p.ID,
	})
}
