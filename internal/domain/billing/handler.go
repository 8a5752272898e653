package billing

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
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/:id", h.GetInvoice)

	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/billing", h.Queue)
	admin.POST("/billing", h.CreateInvoice)
}

func (h *Handler) Queue(c echo.Context) error {
	pg := pagination.FromContext(c)
	queue, total, err := h.svc.Queue(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(queue, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateInvoice(c echo.Context) error {
	var in CreateInvoiceInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}
	inv, err := h.svc.CreateInvoice(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) ListInvoices(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	pg := pagination.FromContext(c)
	invoices, total, err := h.svc.ListInvoices(c.Request().Context(), actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(invoices, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetInvoice(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("invalid invoice id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}
