package records

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

	in := &CreateInput{PatientID: f.patient.ID, Diagnosis: strptr("bronchitis")}
	body, _ := json.Marshal(in)
	req, rec := newRequest(http.MethodPost, "/medical-records", string(body), f.doctorActor)
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var out MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.PatientID != f.patient.ID {
		t.Errorf("record bound to wrong patient")
	}
}

func TestHandler_Create_NoActor(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/medical-records", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	if _, err := f.svc.Create(context.Background(), f.doctorActor, &CreateInput{PatientID: f.patient.ID}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	req, rec := newRequest(http.MethodGet, "/medical-records", "", f.patientActor)
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected one record in response: %s", rec.Body.String())
	}
}
