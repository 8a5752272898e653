package scheduling

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	api.PATCH("/appointments/:id", h.UpdateStatus, auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	api.GET("/appointments", h.List)
}

func (h *Handler) Book(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	var in BookInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}

	appt, err := h.svc.Book(c.Request().Context(), actor, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("invalid appointment id")
	}

	var in UpdateStatusInput
	if err := c.Bind(&in); err != nil || in.Status == "" {
		return apperr.Validationf("status is required")
	}

	appt, err := h.svc.UpdateStatus(c.Request().Context(), actor, id, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) List(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByRole(c.Request().Context(), actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
}
