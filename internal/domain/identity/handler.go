package identity

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
)

// AccountService is the identity surface the HTTP layer needs.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	DoctorDirectory(ctx context.Context, specialization string) ([]*DoctorSummary, error)
}

type Handler struct {
	svc AccountService
}

func NewHandler(svc AccountService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the identity endpoints. All of them are public.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/doctors/specializations", h.ListSpecializations)
	api.GET("/doctors/by-specialization/:specialization", h.ListDoctors)
}

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email,max=255"`
	Password        string   `json:"password" validate:"required"`
	Name            string   `json:"name" validate:"required,max=255"`
	Role            string   `json:"role" validate:"required"`
	Specialization  string   `json:"specialization"`
	Qualifications  *string  `json:"qualifications"`
	ConsultationFee *float64 `json:"consultationFee" validate:"omitempty,gte=0"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var errBadBody = apperr.Validation("invalid request body")

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BindFailure(err, errBadBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	acct, err := h.svc.Register(c.Request().Context(), RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		Role:            req.Role,
		Specialization:  req.Specialization,
		Qualifications:  req.Qualifications,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"id":      acct.ID,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BindFailure(err, errBadBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListSpecializations(c echo.Context) error {
	return c.JSON(http.StatusOK, Specializations())
}

func (h *Handler) ListDoctors(c echo.Context) error {
	spec, err := url.PathUnescape(c.Param("specialization"))
	if err != nil {
		return ErrInvalidSpecialization
	}
	doctors, err := h.svc.DoctorDirectory(c.Request().Context(), spec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctors)
}
