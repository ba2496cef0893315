package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"weather_session/internal/models"
)

// Persisted keys.
const (
	usersKey       = "users"
	currentUserKey = "currentUser"
)

// accountRecord is the stored form of an account inside the users map.
type accountRecord struct {
	Pin       string         `json:"pin"`
	CityStats map[string]int `json:"cityStats"`
	CityOrder []string       `json:"cityOrder,omitempty"`
	LastCity  string         `json:"lastCity,omitempty"`
}

// IdentityRepo keeps all accounts as one JSON object under usersKey and the
// active username under currentUserKey.
type IdentityRepo struct {
	kv KeyValue
}

func NewIdentityRepo(kv KeyValue) *IdentityRepo {
	return &IdentityRepo{kv: kv}
}

var _ IdentityStore = (*IdentityRepo)(nil)

func (r *IdentityRepo) loadRecords(ctx context.Context) (map[string]accountRecord, error) {
	raw, ok, err := r.kv.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	records := make(map[string]accountRecord)
	if !ok || raw == "" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return records, nil
}

func (r *IdentityRepo) saveRecords(ctx context.Context, records map[string]accountRecord) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := r.kv.Set(ctx, usersKey, string(b)); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// GetAccount returns the account for username, or (nil, nil) if absent.
func (r *IdentityRepo) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	records, err := r.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := records[username]
	if !ok {
		return nil, nil
	}
	acc := toAccount(username, rec)
	return &acc, nil
}

// InsertAccount adds a new account. Returns ErrAccountExists if the
// username is taken.
func (r *IdentityRepo) InsertAccount(ctx context.Context, acc models.Account) error {
	records, err := r.loadRecords(ctx)
	if err != nil {
		return err
	}
	if _, ok := records[acc.Username]; ok {
		return fmt.Errorf("insert %q: %w", acc.Username, ErrAccountExists)
	}
	records[acc.Username] = toRecord(acc)
	return r.saveRecords(ctx, records)
}

// UpdateAccount replaces an existing account record. This is a plain
// read-modify-write of the whole users map; concurrent writers can lose
// updates.
func (r *IdentityRepo) UpdateAccount(ctx context.Context, acc models.Account) error {
	records, err := r.loadRecords(ctx)
	if err != nil {
		return err
	}
	if _, ok := records[acc.Username]; !ok {
		return fmt.Errorf("update %q: account not found", acc.Username)
	}
	records[acc.Username] = toRecord(acc)
	return r.saveRecords(ctx, records)
}

// ActiveUser returns the stored active username, "" when signed out.
func (r *IdentityRepo) ActiveUser(ctx context.Context) (string, error) {
	v, ok, err := r.kv.Get(ctx, currentUserKey)
	if err != nil {
		return "", fmt.Errorf("load active user: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

func (r *IdentityRepo) SetActiveUser(ctx context.Context, username string) error {
	if err := r.kv.Set(ctx, currentUserKey, username); err != nil {
		return fmt.Errorf("save active user: %w", err)
	}
	return nil
}

func (r *IdentityRepo) ClearActiveUser(ctx context.Context) error {
	if err := r.kv.Delete(ctx, currentUserKey); err != nil {
		return fmt.Errorf("clear active user: %w", err)
	}
	return nil
}

func toRecord(acc models.Account) accountRecord {
	stats := make(map[string]int, len(acc.CityStats))
	for city, n := range acc.CityStats {
		stats[city] = n
	}
	return accountRecord{
		Pin:       acc.Pin,
		CityStats: stats,
		CityOrder: append([]string(nil), acc.CityOrder...),
		LastCity:  acc.LastCity,
	}
}

// toAccount rebuilds an account and repairs the city order: entries that
// are not positive counts are dropped, and keys missing from the stored
// order are appended alphabetically so ranking stays deterministic.
func toAccount(username string, rec accountRecord) models.Account {
	stats := make(map[string]int, len(rec.CityStats))
	for city, n := range rec.CityStats {
		if n >= 1 {
			stats[city] = n
		}
	}

	order := make([]string, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, city := range rec.CityOrder {
		if _, ok := stats[city]; ok && !seen[city] {
			order = append(order, city)
			seen[city] = true
		}
	}
	var missing []string
	for city := range stats {
		if !seen[city] {
			missing = append(missing, city)
		}
	}
	sort.Strings(missing)
	order = append(order, missing...)

	return models.Account{
		Username:  username,
		Pin:       rec.Pin,
		CityStats: stats,
		CityOrder: order,
		LastCity:  rec.LastCity,
	}
}
