package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"weather_session/internal/logger"
	"weather_session/internal/models"
	"weather_session/internal/weather"

	"github.com/google/uuid"
)

var (
	ErrEmptyCity   = errors.New("city name is empty")
	ErrNotSignedIn = errors.New("no active session")
	// ErrSuperseded is the cancel cause of an automatic search replaced by
	// a newer search or by sign-out.
	ErrSuperseded = errors.New("search superseded")
)

// Search triggers, used in logs.
const (
	TriggerManual = "manual"
	TriggerAuto   = "auto"
)

// SessionView is what the caller shows after the session state changes.
type SessionView struct {
	SignedIn  bool           `json:"signed_in"`
	Username  string         `json:"username,omitempty"`
	TopCities []string       `json:"top_cities"`
	LastCity  *SearchOutcome `json:"last_city,omitempty"`
}

// SearchOutcome tracks the automatic last-city search started on sign-in.
// While Loading is set neither Report nor Error is; afterwards exactly one is.
type SearchOutcome struct {
	City    string         `json:"city"`
	Loading bool           `json:"loading,omitempty"`
	Message string         `json:"message,omitempty"`
	Report  *models.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// autoSearch is the automatic search of the current session.
type autoSearch struct {
	id       string
	username string
	cancel   context.CancelCauseFunc
	outcome  SearchOutcome
	done     bool
}

// ControllerService owns the SignedOut/SignedIn state machine and the search
// pipeline. The session itself lives in the identity store, so every call
// observes the persisted state. The automatic last-city search runs in the
// background; its progress is reported by Session.
type ControllerService struct {
	accounts Accounts
	resolver LocationResolver
	fetcher  ForecastFetcher
	clock    Clock
	log      *logger.Logger
	topLimit int

	mu     sync.Mutex
	auto   *autoSearch
	closed bool
	wg     sync.WaitGroup
}

func NewControllerService(accounts Accounts, resolver LocationResolver, fetcher ForecastFetcher,
	clock Clock, log *logger.Logger, topLimit int) *ControllerService {
	if log == nil {
		log = logger.Nop()
	}
	if topLimit <= 0 {
		topLimit = DefaultTopLimit
	}
	return &ControllerService{
		accounts: accounts,
		resolver: resolver,
		fetcher:  fetcher,
		clock:    clock,
		log:      log,
		topLimit: topLimit,
	}
}

// Startup restores a persisted session and runs the sign-in effects for it.
func (c *ControllerService) Startup(ctx context.Context) (SessionView, error) {
	username, ok, err := c.accounts.RestoreSession(ctx)
	if err != nil {
		c.log.Errorw("session_restore_failed", "err", err)
		return SessionView{TopCities: []string{}}, err
	}
	if !ok {
		c.log.Infow("session_restore", "signed_in", false)
		return SessionView{TopCities: []string{}}, nil
	}
	c.log.Infow("session_restore", "signed_in", true, "username", username)
	return c.enterSignedIn(ctx, username)
}

func (c *ControllerService) CreateAccount(ctx context.Context, username, pin string) (SessionView, error) {
	if err := c.accounts.CreateAccount(ctx, username, pin); err != nil {
		c.log.Infow("account_create_failed", "username", username, "err", err)
		return SessionView{}, err
	}
	c.log.Infow("account_created", "username", username)
	return c.enterSignedIn(ctx, username)
}

func (c *ControllerService) SignIn(ctx context.Context, username, pin string) (SessionView, error) {
	if err := c.accounts.SignIn(ctx, username, pin); err != nil {
		c.log.Infow("account_sign_in_failed", "username", username, "err", err)
		return SessionView{}, err
	}
	c.log.Infow("account_signed_in", "username", username)
	return c.enterSignedIn(ctx, username)
}

// SignOut ends the session. A pending automatic search is abandoned.
func (c *ControllerService) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.supersedeLocked()
	c.auto = nil
	c.mu.Unlock()
	if err := c.accounts.SignOut(ctx); err != nil {
		c.log.Errorw("account_sign_out_failed", "err", err)
		return err
	}
	c.log.Infow("account_signed_out")
	return nil
}

// Session reports the current state without running any search.
func (c *ControllerService) Session(ctx context.Context) (SessionView, error) {
	username, err := c.accounts.ActiveUser(ctx)
	if err != nil {
		return SessionView{}, err
	}
	if username == "" {
		return SessionView{TopCities: []string{}}, nil
	}
	top, err := c.accounts.TopCities(ctx, username, c.topLimit)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{SignedIn: true, Username: username, TopCities: top, LastCity: c.autoOutcome(username)}, nil
}

// TopCities ranks the active account's cities. limit <= 0 uses the
// configured default.
func (c *ControllerService) TopCities(ctx context.Context, limit int) ([]string, error) {
	username, err := c.accounts.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, ErrNotSignedIn
	}
	if limit <= 0 {
		limit = c.topLimit
	}
	return c.accounts.TopCities(ctx, username, limit)
}

// Search runs the pipeline for a user-entered city. It supersedes any
// automatic search still in flight.
func (c *ControllerService) Search(ctx context.Context, city string) (models.Report, error) {
	c.mu.Lock()
	c.supersedeLocked()
	c.mu.Unlock()
	return c.search(ctx, uuid.NewString(), city, TriggerManual)
}

// Close supersedes a pending automatic search and waits for it to return.
// Later sign-ins no longer start automatic searches.
func (c *ControllerService) Close() {
	c.mu.Lock()
	c.closed = true
	c.supersedeLocked()
	c.mu.Unlock()
	c.wg.Wait()
}

// enterSignedIn renders the top cities and, when the account has a last
// city, starts searching it in the background.
func (c *ControllerService) enterSignedIn(ctx context.Context, username string) (SessionView, error) {
	top, err := c.accounts.TopCities(ctx, username, c.topLimit)
	if err != nil {
		return SessionView{}, err
	}
	view := SessionView{SignedIn: true, Username: username, TopCities: top}

	acc, err := c.accounts.Account(ctx, username)
	if err != nil {
		return view, err
	}
	if acc == nil || !acc.HasLastCity() {
		c.mu.Lock()
		c.supersedeLocked()
		c.auto = nil
		c.mu.Unlock()
		return view, nil
	}

	view.LastCity = c.startAutoSearch(ctx, username, acc.LastCity)
	return view, nil
}

// startAutoSearch launches the last-city search detached from the caller's
// cancellation and returns its initial outcome.
func (c *ControllerService) startAutoSearch(ctx context.Context, username, city string) *SearchOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()

	if c.closed {
		c.auto = nil
		return nil
	}

	outcome := SearchOutcome{City: city, Loading: true, Message: MsgLoading}

	autoCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	a := &autoSearch{
		id:       uuid.NewString(),
		username: username,
		cancel:   cancel,
		outcome:  outcome,
	}
	c.auto = a

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel(nil)
		c.finishAutoSearch(a, c.runAutoSearch(autoCtx, a.id, city))
	}()
	return &outcome
}

func (c *ControllerService) runAutoSearch(ctx context.Context, id, city string) SearchOutcome {
	report, err := c.search(ctx, id, city, TriggerAuto)
	if err != nil {
		return SearchOutcome{City: city, Error: UserMessage(err)}
	}
	return SearchOutcome{City: city, Report: &report}
}

func (c *ControllerService) finishAutoSearch(a *autoSearch, outcome SearchOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a.outcome = outcome
	a.done = true
}

// autoOutcome returns a copy of the automatic search outcome for username.
func (c *ControllerService) autoOutcome(username string) *SearchOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auto == nil || c.auto.username != username {
		return nil
	}
	outcome := c.auto.outcome
	return &outcome
}

// supersedeLocked cancels the automatic search if it is still running.
// The finished outcome stays visible. c.mu must be held.
func (c *ControllerService) supersedeLocked() {
	if c.auto != nil && !c.auto.done {
		c.log.Debugw("search_superseded", "search_id", c.auto.id)
		c.auto.cancel(ErrSuperseded)
	}
}

// search resolves, fetches, updates the clock zone and records stats, in
// that order. Nothing observable changes until the forecast is in hand.
func (c *ControllerService) search(ctx context.Context, id, city, trigger string) (models.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		c.log.Infow("search_rejected", "search_id", id, "trigger", trigger, "err", ErrEmptyCity)
		return models.Report{}, ErrEmptyCity
	}
	c.log.Debugw("search_started", "search_id", id, "trigger", trigger, "city", city)

	loc, err := c.resolver.Resolve(ctx, city)
	if err != nil {
		err = superseded(ctx, err)
		c.logSearchFailure(id, trigger, city, err)
		return models.Report{}, err
	}
	fc, err := c.fetcher.FetchCurrent(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		err = superseded(ctx, err)
		c.logSearchFailure(id, trigger, city, err)
		return models.Report{}, err
	}
	// A superseded search must not move the clock or count a lookup.
	if ctx.Err() != nil {
		err := superseded(ctx, ctx.Err())
		c.logSearchFailure(id, trigger, city, err)
		return models.Report{}, err
	}

	zone := c.clock.SetTimeZone(fc.TimeZone)
	report := models.Report{
		SearchID:    id,
		City:        loc.Name,
		Country:     loc.Country,
		Temperature: fc.Temperature,
		WindSpeed:   fc.WindSpeed,
		Condition:   fc.Condition,
		WeatherCode: fc.WeatherCode,
		TimeZone:    zone,
		LocalTime:   c.clock.Tick().Time,
	}

	username, err := c.accounts.ActiveUser(ctx)
	if err != nil {
		c.log.Errorw("search_stats_failed", "search_id", id, "err", err)
		return report, nil
	}
	if username != "" {
		if err := c.accounts.RecordLookup(ctx, username, loc.Name); err != nil {
			c.log.Errorw("search_stats_failed", "search_id", id, "username", username, "err", err)
			return report, nil
		}
		top, err := c.accounts.TopCities(ctx, username, c.topLimit)
		if err != nil {
			c.log.Errorw("search_stats_failed", "search_id", id, "username", username, "err", err)
			return report, nil
		}
		report.TopCities = top
	}

	c.log.Infow("search_completed",
		"search_id", id,
		"trigger", trigger,
		"city", report.City,
		"country", report.Country,
		"time_zone", zone,
	)
	return report, nil
}

// superseded prefers the cancellation cause when a lookup failed because
// its search was canceled mid-request.
func superseded(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	if cause := context.Cause(ctx); errors.Is(cause, ErrSuperseded) {
		return cause
	}
	return ctx.Err()
}

func (c *ControllerService) logSearchFailure(id, trigger, city string, err error) {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		c.log.Infow("search_not_found", "search_id", id, "trigger", trigger, "city", city)
	case errors.Is(err, ErrSuperseded):
		c.log.Infow("search_superseded", "search_id", id, "trigger", trigger, "city", city)
	case errors.Is(err, context.Canceled):
		c.log.Infow("search_canceled", "search_id", id, "trigger", trigger, "city", city)
	default:
		c.log.Errorw("search_transport_failed", "search_id", id, "trigger", trigger, "city", city, "err", err)
	}
}
