// Package postgres wires the pgx connection pool and schema migrations for
// the patent store.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig
	log  logging.Logger
	once sync.Once
}

// NewConnection establishes the pgx pool and verifies connectivity.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return &Connection{pool: pool, cfg: cfg, log: log}, nil
}

// NewConnectionWithPool wraps an existing pool, used by the integration tests.
func NewConnectionWithPool(pool *pgxpool.Pool, log logging.Logger) *Connection {
	return &Connection{pool: pool, log: log}
}

// Pool returns the underlying pgx pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck verifies the pool can reach the database.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	stat := c.pool.Stat()
	if stat.MaxConns() > 0 {
		usage := float64(stat.AcquiredConns()) / float64(stat.MaxConns())
		if usage > 0.8 {
			c.log.Warn("high connection pool usage",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(stat.MaxConns())),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close releases the pool.  Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.log.Info("closed PostgreSQL connection pool")
	})
}

// DSN renders the configuration as a postgres connection URL.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	q := u.Query()
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}
