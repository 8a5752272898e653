package directory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/middleware"
	"github.com/medicore/medicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the directory endpoints. public carries no auth
// middleware; api requires a resolved actor. Credential endpoints get their
// own, much stricter rate limit.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	credGuard := middleware.RateLimit(middleware.LoginRateLimitConfig())
	public.POST("/auth/register", h.Register, credGuard)
	public.POST("/auth/login", h.Login, credGuard)
	public.GET("/doctors", h.ListDoctors)
	public.GET("/specializations", h.ListSpecializations)

	api.GET("/auth/me", h.Me)

	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/patients", h.ListPatients)
	admin.GET("/doctors", h.ListDoctorsAdmin)
	admin.POST("/approve-doctor", h.ApproveDoctor)
	admin.POST("/users", h.AddUser)
	admin.DELETE("/users", h.DeleteUser)
	admin.GET("/stats", h.Stats)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}
	// Self-service registration never creates admins.
	if in.Role == auth.RoleAdmin {
		return apperr.Forbidden("admin accounts are created by an administrator")
	}
	sess, err := h.svc.Register(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}
	sess, err := h.svc.Login(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) Me(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	prof, err := h.svc.Me(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prof)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)

	var specID *uuid.UUID
	if raw := c.QueryParam("specialization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validationf("invalid specialization_id")
		}
		specID = &id
	}

	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), specID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListSpecializations(c echo.Context) error {
	specs, err := h.svc.ListSpecializations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, specs)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListDoctorsAdmin(c echo.Context) error {
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctorsAdmin(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg.Limit, pg.Offset))
}

type approveDoctorInput struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *Handler) ApproveDoctor(c echo.Context) error {
	var in approveDoctorInput
	if err := c.Bind(&in); err != nil || in.UserID == uuid.Nil {
		return apperr.Validationf("user_id is required")
	}
	user, err := h.svc.ApproveDoctor(c.Request().Context(), in.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) AddUser(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validationf("invalid request body")
	}
	user, err := h.svc.AddUser(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

type deleteUserInput struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (h *Handler) DeleteUser(c echo.Context) error {
	var in deleteUserInput
	if err := c.Bind(&in); err != nil || in.UserID == uuid.Nil || in.Role == "" {
		return apperr.Validationf("user_id and role are required")
	}
	if err := h.svc.DeleteUser(c.Request().Context(), in.UserID, in.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}
