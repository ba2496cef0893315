package service

import (
	"context"
	"time"

	"weather_session/internal/logger"
	"weather_session/internal/models"
	"weather_session/internal/repository"
)

// Accounts holds identity, session and per-user city statistics.
type Accounts interface {
	CreateAccount(ctx context.Context, username, pin string) error
	SignIn(ctx context.Context, username, pin string) error
	SignOut(ctx context.Context) error
	RestoreSession(ctx context.Context) (string, bool, error)
	ActiveUser(ctx context.Context) (string, error)
	Account(ctx context.Context, username string) (*models.Account, error)
	RecordLookup(ctx context.Context, username, city string) error
	TopCities(ctx context.Context, username string, limit int) ([]string, error)
}

// LocationResolver turns free-text city names into coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, city string) (models.Location, error)
}

// ForecastFetcher returns current conditions for coordinates.
type ForecastFetcher interface {
	FetchCurrent(ctx context.Context, latitude, longitude float64) (models.Forecast, error)
}

// Clock renders wall-clock time in the most recently searched zone.
type Clock interface {
	Tick() models.ClockReading
	Display() models.ClockReading
	SetTimeZone(name string) string
	Zone() string
	Run(ctx context.Context, every time.Duration)
}

// Controller drives the session state machine and the search pipeline.
type Controller interface {
	Startup(ctx context.Context) (SessionView, error)
	CreateAccount(ctx context.Context, username, pin string) (SessionView, error)
	SignIn(ctx context.Context, username, pin string) (SessionView, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (SessionView, error)
	TopCities(ctx context.Context, limit int) ([]string, error)
	Search(ctx context.Context, city string) (models.Report, error)
	Close()
}

var (
	_ Accounts   = (*AccountService)(nil)
	_ Clock      = (*ClockService)(nil)
	_ Controller = (*ControllerService)(nil)
)

// Deps are the collaborators that do not come from the repository layer.
type Deps struct {
	Resolver     LocationResolver
	Fetcher      ForecastFetcher
	FallbackZone string
	TopLimit     int
	Log          *logger.Logger
}

// Service aggregates the sub-services handlers depend on.
type Service struct {
	Controller
	Clock
	Accounts Accounts
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	accounts := NewAccountService(repos.Identity)
	clock := NewClockService(deps.FallbackZone)
	return &Service{
		Controller: NewControllerService(accounts, deps.Resolver, deps.Fetcher, clock, deps.Log, deps.TopLimit),
		Clock:      clock,
		Accounts:   accounts,
	}
}
