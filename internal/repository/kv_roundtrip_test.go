package repository_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"weather_session/internal/logger"
	"weather_session/internal/repository"
	"weather_session/internal/repository/db"

	"github.com/stretchr/testify/require"
)

func openSQLiteKV(t *testing.T) repository.KeyValue {
	t.Helper()
	conn, err := db.InitDB(context.Background(), filepath.Join(t.TempDir(), "kv.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return repository.NewSQLiteKV(conn)
}

// exerciseKV checks the KeyValue contract against any backend.
func exerciseKV(t *testing.T, kv repository.KeyValue) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", v)

	require.NoError(t, kv.Set(ctx, "k", "v2"))
	v, _, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", v)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "k"), "deleting an absent key is a no-op")
}

func TestSQLiteKV_Contract(t *testing.T) {
	exerciseKV(t, openSQLiteKV(t))
}

func TestMemoryKV_Contract(t *testing.T) {
	exerciseKV(t, repository.NewMemoryKV())
}

func TestMemoryKV_ConcurrentAccess(t *testing.T) {
	kv := repository.NewMemoryKV()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kv.Set(ctx, "k", "v")
			_, _, _ = kv.Get(ctx, "k")
		}()
	}
	wg.Wait()

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	conn, err := db.InitDB(ctx, path, logger.Nop())
	require.NoError(t, err)
	repo := repository.NewRepository(repository.NewSQLiteKV(conn))
	require.NoError(t, repo.Identity.SetActiveUser(ctx, "Alice"))
	require.NoError(t, conn.Close())

	conn, err = db.InitDB(ctx, path, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	repo = repository.NewRepository(repository.NewSQLiteKV(conn))

	active, err := repo.Identity.ActiveUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice", active)
}
