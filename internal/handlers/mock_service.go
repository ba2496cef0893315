package handlers

import (
	"context"
	"sync"
	"time"

	"weather_session/internal/models"
	"weather_session/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockController struct {
	mu sync.Mutex

	view      service.SessionView
	viewErr   error
	session   service.SessionView
	signOut   error
	report    models.Report
	searchErr error
	top       []string
	topErr    error

	lastUsername string
	lastPin      string
	lastCity     string
	lastLimit    int
	signOuts     int
	closed       bool
}

func (m *mockController) Startup(ctx context.Context) (service.SessionView, error) {
	return m.view, m.viewErr
}
func (m *mockController) CreateAccount(ctx context.Context, username, pin string) (service.SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUsername, m.lastPin = username, pin
	return m.view, m.viewErr
}
func (m *mockController) SignIn(ctx context.Context, username, pin string) (service.SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUsername, m.lastPin = username, pin
	return m.view, m.viewErr
}
func (m *mockController) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signOuts++
	return m.signOut
}
func (m *mockController) Session(ctx context.Context) (service.SessionView, error) {
	return m.session, m.viewErr
}
func (m *mockController) TopCities(ctx context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	return m.top, m.topErr
}
func (m *mockController) Search(ctx context.Context, city string) (models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCity = city
	return m.report, m.searchErr
}

func (m *mockController) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

type mockClock struct {
	reading models.ClockReading
	zone    string
}

func (m *mockClock) Tick() models.ClockReading                { return m.reading }
func (m *mockClock) Display() models.ClockReading             { return m.reading }
func (m *mockClock) SetTimeZone(name string) string           { m.zone = name; return name }
func (m *mockClock) Zone() string                             { return m.zone }
func (m *mockClock) Run(ctx context.Context, _ time.Duration) { <-ctx.Done() }

// ---- Shared Test Helpers ----

func newTestService(ctrl *mockController, clock *mockClock) *service.Service {
	if ctrl == nil {
		ctrl = &mockController{}
	}
	if clock == nil {
		clock = &mockClock{}
	}
	return &service.Service{Controller: ctrl, Clock: clock}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
