package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
)

func newRequest(method, target, body string, actor auth.Actor) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req = req.WithContext(auth.WithActor(context.Background(), actor))
	return req, httptest.NewRecorder()
}

func TestHandler_Create(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	in := &CreateInput{DoctorID: f.doctor.ID, Rating: 5}
	body, _ := json.Marshal(in)
	req, rec := newRequest(http.MethodPost, "/feedback", string(body), f.patientActor)
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Create_BadRating(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	in := &CreateInput{DoctorID: f.doctor.ID, Rating: 9}
	body, _ := json.Marshal(in)
	req, rec := newRequest(http.MethodPost, "/feedback", string(body), f.patientActor)
	c := e.NewContext(req, rec)

	err := h.Create(c)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_ListForDoctor(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	if _, err := f.svc.Create(context.Background(), f.patientActor, &CreateInput{DoctorID: f.doctor.ID, Rating: 4}); err != nil {
		t.Fatalf("seed feedback: %v", err)
	}

	req, rec := newRequest(http.MethodGet, "/feedback", "", f.doctorActor)
	c := e.NewContext(req, rec)

	if err := h.ListForDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"average_rating":4`) {
		t.Errorf("expected average in response: %s", rec.Body.String())
	}
}
