package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"weather_session/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// minimal router wiring only the session middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/secure", h.sessionMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(ctxUsername)})
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	cases := []struct {
		name    string
		ctrl    *mockController
		code    int
		wantKey string
		want    string
	}{
		{
			name:    "signed out",
			ctrl:    &mockController{},
			code:    http.StatusUnauthorized,
			wantKey: "error",
			want:    service.MsgNotSignedIn,
		},
		{
			name:    "store failure",
			ctrl:    &mockController{viewErr: errors.New("boom")},
			code:    http.StatusInternalServerError,
			wantKey: "error",
			want:    errLoadSession,
		},
		{
			name:    "signed in",
			ctrl:    &mockController{session: service.SessionView{SignedIn: true, Username: "alice"}},
			code:    http.StatusOK,
			wantKey: "username",
			want:    "alice",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newMiddlewareOnlyRouter(newTestService(tc.ctrl, nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
			if w.Code != tc.code {
				t.Fatalf("status=%d, want %d", w.Code, tc.code)
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body[tc.wantKey] != tc.want {
				t.Fatalf("%s=%q, want %q", tc.wantKey, body[tc.wantKey], tc.want)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newTestRouter(newTestService(nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	issued := w.Header().Get(headerRequestID)
	if _, err := uuid.Parse(issued); err != nil {
		t.Fatalf("expected a uuid request id, got %q", issued)
	}

	keep := uuid.NewString()
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, keep)
	r.ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); got != keep {
		t.Fatalf("expected caller id %q to be kept, got %q", keep, got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "not-a-uuid")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); got == "not-a-uuid" {
		t.Fatal("malformed request id should be replaced")
	}
}
