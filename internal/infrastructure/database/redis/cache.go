package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// SearchCache stores serialized search responses keyed by request digest.
// It satisfies the search service's Cache port: lookups and stores are
// best-effort and never fail the request path.
type SearchCache struct {
	client *Client
	log    logging.Logger
	prefix string
	ttl    time.Duration
}

// NewSearchCache builds a cache using the client's configured key prefix and
// default TTL.
func NewSearchCache(client *Client, log logging.Logger) *SearchCache {
	cfg := client.Config()
	return &SearchCache{
		client: client,
		log:    log,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.DefaultTTL,
	}
}

func (c *SearchCache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by +/- 10% so cached pages written in the
// same second do not all expire together.
func (c *SearchCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get returns the cached payload for key, reporting whether it was present.
// Transport errors are logged and reported as misses.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache read failed", logging.String("key", key), logging.Err(err))
		return nil, false
	}
	return data, true
}

// Set stores value under key.  A non-positive ttl falls back to the
// configured default.  Write errors are logged and swallowed.
func (c *SearchCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Redis().Set(ctx, c.fullKey(key), value, c.jitterTTL(ttl)).Err(); err != nil {
		c.log.Warn("cache write failed", logging.String("key", key), logging.Err(err))
	}
}

// Invalidate deletes every key under the given logical prefix (for example
// "search:") and returns the number of keys removed.  The patent-change
// consumer calls this when the corpus mutates.
func (c *SearchCache) Invalidate(ctx context.Context, prefix string) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)
	pattern := c.fullKey(prefix) + "*"
	rdb := c.client.Redis()
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return removed, errors.Wrap(err, errors.ErrCodeDatabaseError, "cache invalidation scan failed")
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, errors.Wrap(err, errors.ErrCodeDatabaseError, "cache invalidation delete failed")
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
