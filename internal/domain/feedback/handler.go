package feedback

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
	api.POST("/feedback", h.Create, auth.RequireRole(auth.RolePatient))
	api.GET("/feedback", h.ListForDoctor, auth.RequireRole(auth.RoleDoctor))
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

	fb, err := h.svc.Create(c.Request().Context(), actor, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fb)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	pg := pagination.FromContext(c)
	page, err := h.svc.ListForDoctor(c.Request().Context(), actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
