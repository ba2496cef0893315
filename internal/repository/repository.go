package repository

import (
	"context"
	"errors"

	"weather_session/internal/models"
)

// ErrAccountExists is returned when inserting a username that is already taken.
var ErrAccountExists = errors.New("account already exists")

// KeyValue is the pluggable persistence backend. Get reports ok=false for
// an absent key.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// IdentityStore persists accounts and the active session. Every call reads
// the backend anew; nothing is cached between calls.
type IdentityStore interface {
	GetAccount(ctx context.Context, username string) (*models.Account, error)
	InsertAccount(ctx context.Context, acc models.Account) error
	UpdateAccount(ctx context.Context, acc models.Account) error
	ActiveUser(ctx context.Context) (string, error)
	SetActiveUser(ctx context.Context, username string) error
	ClearActiveUser(ctx context.Context) error
}

type Repository struct {
	KV       KeyValue
	Identity IdentityStore
}

func NewRepository(kv KeyValue) *Repository {
	return &Repository{
		KV:       kv,
		Identity: NewIdentityRepo(kv),
	}
}
