// Package redis provides the Redis-backed search result cache.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ErrClientClosed is returned by operations issued after Close.
var ErrClientClosed = errors.New(errors.ErrCodeInternal, "redis client is closed")

// Client wraps a go-redis client with lifecycle management.
type Client struct {
	rdb    *redis.Client
	cfg    config.RedisConfig
	log    logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to Redis and verifies connectivity with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "redis connection failed")
	}

	log.Info("connected to Redis",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
	)
	return &Client{rdb: rdb, cfg: cfg, log: log}, nil
}

// NewClientWithRedis wraps an existing go-redis client, used by tests.
func NewClientWithRedis(rdb *redis.Client, cfg config.RedisConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	return &Client{rdb: rdb, cfg: cfg, log: log}
}

func applyDefaults(cfg *config.RedisConfig) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = 2
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "patint:"
	}
}

// Redis exposes the underlying go-redis client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Config returns the effective configuration after defaults were applied.
func (c *Client) Config() config.RedisConfig {
	return c.cfg
}

// HealthCheck verifies the connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "redis health check failed")
	}
	return nil
}

// Close shuts down the connection pool.  Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rdb.Close(); err != nil {
		c.log.Error("failed to close redis client", logging.Err(err))
		return err
	}
	c.log.Info("closed redis client")
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
