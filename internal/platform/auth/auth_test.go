package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, RoleDoctor)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	actor, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if actor.ID != userID {
		t.Errorf("expected actor id %s, got %s", userID, actor.ID)
	}
	if actor.Role != RoleDoctor {
		t.Errorf("expected role doctor, got %s", actor.Role)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, -time.Minute)
	token, err := issuer.Issue(uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenIssuer_RejectsWrongKey(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	other := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	token, err := issuer.Issue(uuid.New(), RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("expected error for token signed with a different key")
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := h(c)
	if err == nil {
		t.Fatal("expected error for missing authorization header")
	}
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized kind, got %d", apperr.KindOf(err))
	}
}

func TestMiddleware_ResolvesActor(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	userID := uuid.New()
	token, _ := issuer.Issue(userID, RolePatient)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(issuer)(func(c echo.Context) error {
		actor, ok := ActorFromContext(c.Request().Context())
		if !ok {
			t.Error("expected actor in context")
		}
		if actor.ID != userID || actor.Role != RolePatient {
			t.Errorf("unexpected actor: %+v", actor)
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(actorRole string, required ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		ctx := WithActor(req.Context(), Actor{ID: uuid.New(), Role: actorRole})
		c.SetRequest(req.WithContext(ctx))

		h := RequireRole(required...)(func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})
		return h(c)
	}

	if err := run(RoleAdmin, RoleAdmin); err != nil {
		t.Errorf("admin should pass admin gate: %v", err)
	}
	if err := run(RoleDoctor, RoleDoctor, RoleAdmin); err != nil {
		t.Errorf("doctor should pass doctor-or-admin gate: %v", err)
	}
	if err := run(RolePatient, RoleAdmin); err == nil {
		t.Error("patient must not pass admin gate")
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden kind, got %d", apperr.KindOf(err))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected mismatched password to fail")
	}
}
