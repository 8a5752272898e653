package records

import (
	"net/http"

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
	api.POST("/medical-records", h.Create, auth.RequireRole(auth.RoleDoctor))
	api.GET("/medical-records", h.List)
}

func (h *Handler) Create(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}

	rec, err := h.svc.Create(c.Request().Context(), actor, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) List(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	pg := pagination.FromContext(c)
	recs, total, err := h.svc.ListByRole(c.Request().Context(), actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, pg.Limit, pg.Offset))
}
