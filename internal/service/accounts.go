package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"weather_session/internal/models"
	"weather_session/internal/repository"
)

// DefaultTopLimit is the number of ranked cities shown when no limit is given.
const DefaultTopLimit = 3

// Domain errors for account flows.
var (
	ErrInvalidUsername = errors.New("username must not be empty")
	ErrInvalidPin      = errors.New("PIN must be exactly 4 digits")
	ErrDuplicateUser   = errors.New("username already exists")
	ErrUnknownUser     = errors.New("user not found")
	ErrWrongPin        = errors.New("wrong PIN")
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// AccountService implements account, session and city-statistics rules on
// top of an IdentityStore. PINs are stored and compared as plain text.
type AccountService struct {
	store repository.IdentityStore
}

func NewAccountService(store repository.IdentityStore) *AccountService {
	return &AccountService{store: store}
}

// validateCredentials runs before any store access.
func validateCredentials(username, pin string) error {
	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPin
	}
	return nil
}

// CreateAccount inserts a new account with empty stats and makes it active.
func (s *AccountService) CreateAccount(ctx context.Context, username, pin string) error {
	if err := validateCredentials(username, pin); err != nil {
		return err
	}
	err := s.store.InsertAccount(ctx, models.Account{
		Username:  username,
		Pin:       pin,
		CityStats: map[string]int{},
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("create account %q: %w", username, err)
	}
	return s.store.SetActiveUser(ctx, username)
}

// SignIn checks the PIN by exact string equality and makes the account active.
func (s *AccountService) SignIn(ctx context.Context, username, pin string) error {
	if err := validateCredentials(username, pin); err != nil {
		return err
	}
	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrUnknownUser
	}
	if acc.Pin != pin {
		return ErrWrongPin
	}
	return s.store.SetActiveUser(ctx, username)
}

// SignOut clears the active session. Safe to call when already signed out.
func (s *AccountService) SignOut(ctx context.Context) error {
	return s.store.ClearActiveUser(ctx)
}

// ActiveUser returns the active username, or "" when no session is set or
// the stored session points at an account that no longer exists.
func (s *AccountService) ActiveUser(ctx context.Context) (string, error) {
	username, err := s.store.ActiveUser(ctx)
	if err != nil || username == "" {
		return "", err
	}
	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", nil
	}
	return username, nil
}

// RestoreSession is called at startup. A dangling session reference is
// cleared and reported as signed out.
func (s *AccountService) RestoreSession(ctx context.Context) (string, bool, error) {
	stored, err := s.store.ActiveUser(ctx)
	if err != nil {
		return "", false, err
	}
	if stored == "" {
		return "", false, nil
	}
	username, err := s.ActiveUser(ctx)
	if err != nil {
		return "", false, err
	}
	if username == "" {
		if err := s.store.ClearActiveUser(ctx); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return username, true, nil
}

// Account returns a copy of the stored account, or (nil, nil) if absent.
func (s *AccountService) Account(ctx context.Context, username string) (*models.Account, error) {
	return s.store.GetAccount(ctx, username)
}

// RecordLookup counts one successful lookup of city for username and makes
// it the account's last city. It does nothing unless username is the
// active session.
func (s *AccountService) RecordLookup(ctx context.Context, username, city string) error {
	if city == "" {
		return nil
	}
	active, err := s.ActiveUser(ctx)
	if err != nil {
		return err
	}
	if active == "" || active != username {
		return nil
	}

	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return err
	}
	if acc == nil {
		return nil
	}
	if acc.CityStats == nil {
		acc.CityStats = make(map[string]int)
	}
	if _, seen := acc.CityStats[city]; !seen {
		acc.CityOrder = append(acc.CityOrder, city)
	}
	acc.CityStats[city]++
	acc.LastCity = city

	return s.store.UpdateAccount(ctx, *acc)
}

// TopCities ranks the account's cities by descending count; ties keep the
// order in which cities were first recorded.
func (s *AccountService) TopCities(ctx context.Context, username string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	acc, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrUnknownUser
	}
	return rankCities(acc.CityStats, acc.CityOrder, limit), nil
}

func rankCities(stats map[string]int, order []string, limit int) []string {
	ranked := make([]string, 0, len(order))
	for _, city := range order {
		if stats[city] >= 1 {
			ranked = append(ranked, city)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return stats[ranked[i]] > stats[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
