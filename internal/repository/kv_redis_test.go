package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Runs only when WEATHER_TEST_REDIS_URL points at a disposable redis.
func TestRedisKV_Contract(t *testing.T) {
	url := os.Getenv("WEATHER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WEATHER_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ConnectRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	kv := NewRedisKV(client, "weather_test:"+t.Name()+":")
	t.Cleanup(func() { _ = kv.Delete(context.Background(), "k") })

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	raw, err := client.Get(ctx, "weather_test:"+t.Name()+":k").Result()
	require.NoError(t, err)
	require.Equal(t, "v", raw)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisKV_KeyPrefix(t *testing.T) {
	kv := NewRedisKV(nil, "weather:")
	require.Equal(t, "weather:users", kv.key("users"))
}

func TestConnectRedis_BadURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "redis://:badport:xx/0")
	require.Error(t, err)
}
