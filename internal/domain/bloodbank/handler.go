package bloodbank

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
)

type DonationService interface {
	ListDonations(ctx context.Context, caller auth.Caller) ([]*Donation, error)
	ScheduleDonation(ctx context.Context, caller auth.Caller, bloodType string, amountML int) (*Donation, int, error)
	Inventory(ctx context.Context) ([]*InventoryItem, error)
}

type Handler struct {
	svc DonationService
}

func NewHandler(svc DonationService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the donation endpoints. The inventory is public.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/donations")
	g.GET("/inventory", h.Inventory)
	g.GET("", h.List)
	g.POST("", h.Schedule, auth.RequireRoleOr(ErrDonorsOnly, auth.RoleDonor))
}

type scheduleRequest struct {
	BloodType string `json:"bloodType" validate:"required"`
	AmountML  int    `json:"amount_ml" validate:"required,gt=0,lte=2000"`
}

var errBadBody = apperr.Validation("invalid request body")

func (h *Handler) List(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}
	items, err := h.svc.ListDonations(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Schedule(c echo.Context) error {
	caller, err := auth.MustCaller(c.Request().Context())
	if err != nil {
		return err
	}

	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.BindFailure(err, errBadBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, units, err := h.svc.ScheduleDonation(c.Request().Context(), caller, req.BloodType, req.AmountML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message":     "Blood donation scheduled successfully",
		"id":          d.ID,
		"units_added": units,
	})
}

func (h *Handler) Inventory(c echo.Context) error {
	items, err := h.svc.Inventory(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
