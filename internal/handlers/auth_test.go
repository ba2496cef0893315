package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"weather_session/internal/models"
	"weather_session/internal/service"
)

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	ctrl := &mockController{view: service.SessionView{
		SignedIn:  true,
		Username:  "alice",
		TopCities: []string{"Oslo"},
		LastCity: &service.SearchOutcome{
			City:   "Oslo",
			Report: &models.Report{City: "Oslo", Temperature: -3},
		},
	}}
	r := newTestRouter(newTestService(ctrl, nil))

	for _, path := range []string{"/auth/sign-up", "/auth/sign-in"} {
		w := postJSON(t, r, path, `{"username":"alice","pin":"1234"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d, body=%s", path, w.Code, w.Body.String())
		}
		var view service.SessionView
		if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !view.SignedIn || view.Username != "alice" || view.LastCity == nil || view.LastCity.Report.City != "Oslo" {
			t.Fatalf("unexpected view: %+v", view)
		}
		if ctrl.lastUsername != "alice" || ctrl.lastPin != "1234" {
			t.Fatalf("credentials not forwarded: %q/%q", ctrl.lastUsername, ctrl.lastPin)
		}
	}

	// invalid body → 400
	w := postJSON(t, r, "/auth/sign-in", `{"username":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_ErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid pin", service.ErrInvalidPin, http.StatusBadRequest, service.MsgInvalidPin},
		{"empty username", service.ErrInvalidUsername, http.StatusBadRequest, service.MsgInvalidUsername},
		{"duplicate", service.ErrDuplicateUser, http.StatusConflict, service.MsgDuplicateUser},
		{"unknown user", service.ErrUnknownUser, http.StatusUnauthorized, service.MsgUnknownUser},
		{"wrong pin", service.ErrWrongPin, http.StatusUnauthorized, service.MsgWrongPin},
		{"storage", errors.New("disk full"), http.StatusInternalServerError, service.MsgLoadFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(newTestService(&mockController{viewErr: tc.err}, nil))
			w := postJSON(t, r, "/auth/sign-in", `{"username":"alice","pin":"1234"}`)
			if w.Code != tc.code {
				t.Fatalf("status=%d, want %d", w.Code, tc.code)
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["error"] != tc.msg {
				t.Fatalf("error=%q, want %q", body["error"], tc.msg)
			}
		})
	}
}

func TestAuthHandlers_SignOutAndSession(t *testing.T) {
	ctrl := &mockController{session: service.SessionView{TopCities: []string{}}}
	r := newTestRouter(newTestService(ctrl, nil))

	w := postJSON(t, r, "/auth/sign-out", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-out status=%d", w.Code)
	}
	if ctrl.signOuts != 1 {
		t.Fatalf("expected 1 sign-out, got %d", ctrl.signOuts)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("session status=%d", w.Code)
	}
	var view service.SessionView
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if view.SignedIn {
		t.Fatalf("expected signed out view, got %+v", view)
	}

	ctrl.signOut = errors.New("boom")
	w = postJSON(t, r, "/auth/sign-out", ``)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on sign-out failure, got %d", w.Code)
	}
}

func TestAuthHandlers_SessionReportsPendingLastCity(t *testing.T) {
	ctrl := &mockController{session: service.SessionView{
		SignedIn:  true,
		Username:  "alice",
		TopCities: []string{"Oslo"},
		LastCity:  &service.SearchOutcome{City: "Oslo", Loading: true, Message: service.MsgLoading},
	}}
	r := newTestRouter(newTestService(ctrl, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("session status=%d", w.Code)
	}
	var body struct {
		LastCity struct {
			City    string `json:"city"`
			Loading bool   `json:"loading"`
			Message string `json:"message"`
		} `json:"last_city"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.LastCity.City != "Oslo" || !body.LastCity.Loading || body.LastCity.Message != "Loading weather..." {
		t.Fatalf("unexpected last_city: %+v", body.LastCity)
	}
}
