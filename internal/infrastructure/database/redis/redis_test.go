package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClientConnectionRefused(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}, logging.NewNopLogger())
	require.Error(t, err)
}

func TestClientDefaults(t *testing.T) {
	client := newTestClient(t)

	cfg := client.Config()
	assert.Equal(t, 5*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, "patint:", cfg.KeyPrefix)
	assert.Equal(t, 10, cfg.PoolSize)
}

func TestClientHealthCheckAfterClose(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.HealthCheck(context.Background()))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.HealthCheck(context.Background()), ErrClientClosed)
}

func TestSearchCacheRoundTrip(t *testing.T) {
	client := newTestClient(t)
	cache := NewSearchCache(client, logging.NewNopLogger())
	ctx := context.Background()

	_, ok := cache.Get(ctx, "search:abc")
	assert.False(t, ok)

	cache.Set(ctx, "search:abc", []byte(`{"total":3}`), time.Minute)

	got, ok := cache.Get(ctx, "search:abc")
	require.True(t, ok)
	assert.Equal(t, `{"total":3}`, string(got))

	// stored under the configured prefix
	assert.False(t, client.Redis().TTL(ctx, "patint:search:abc").Val() <= 0)
}

func TestSearchCacheDefaultTTL(t *testing.T) {
	client := newTestClient(t)
	cache := NewSearchCache(client, logging.NewNopLogger())
	ctx := context.Background()

	cache.Set(ctx, "search:def", []byte("x"), 0)

	ttl := client.Redis().TTL(ctx, "patint:search:def").Val()
	// default 5m with +/- 10% jitter
	assert.Greater(t, ttl, 4*time.Minute)
	assert.Less(t, ttl, 6*time.Minute)
}

func TestSearchCacheInvalidate(t *testing.T) {
	client := newTestClient(t)
	cache := NewSearchCache(client, logging.NewNopLogger())
	ctx := context.Background()

	cache.Set(ctx, "search:a", []byte("1"), time.Minute)
	cache.Set(ctx, "search:b", []byte("2"), time.Minute)
	cache.Set(ctx, "trend:c", []byte("3"), time.Minute)

	removed, err := cache.Invalidate(ctx, "search:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok := cache.Get(ctx, "search:a")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "trend:c")
	assert.True(t, ok)
}
