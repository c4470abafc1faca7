// Package milvus provides the optional Milvus vector backend.  It mirrors the
// Postgres pgvector scorer behind the same VectorSearcher port; deployments
// pick one via the search.vector_backend setting.
package milvus

import (
	"context"
	"sync"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const (
	defaultCollection = "patent_embeddings"
	defaultDimension  = 768
	defaultTopK       = 300
)

// Client manages the Milvus gRPC connection.
type Client struct {
	mc  client.Client
	cfg config.MilvusConfig
	log logging.Logger

	mu     sync.Mutex
	closed bool
}

// NewClient connects to Milvus and verifies the server is reachable.
func NewClient(ctx context.Context, cfg config.MilvusConfig, log logging.Logger) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.Validation("milvus addr is required")
	}
	applyDefaults(&cfg)

	mc, err := client.NewClient(ctx, client.Config{
		Address: cfg.Addr,
		DBName:  cfg.DBName,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "milvus connection failed")
	}

	c := &Client{mc: mc, cfg: cfg, log: log}
	if err := c.HealthCheck(ctx); err != nil {
		mc.Close()
		return nil, err
	}

	log.Info("connected to Milvus",
		logging.String("addr", cfg.Addr),
		logging.String("collection", cfg.Collection),
	)
	return c, nil
}

// NewClientWithMilvus wraps an existing SDK client, used by tests.
func NewClientWithMilvus(mc client.Client, cfg config.MilvusConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	return &Client{mc: mc, cfg: cfg, log: log}
}

func applyDefaults(cfg *config.MilvusConfig) {
	if cfg.DBName == "" {
		cfg.DBName = "default"
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = defaultDimension
	}
	if cfg.DefaultTopK == 0 {
		cfg.DefaultTopK = defaultTopK
	}
}

// Milvus exposes the underlying SDK client.
func (c *Client) Milvus() client.Client {
	return c.mc
}

// Config returns the effective configuration after defaults were applied.
func (c *Client) Config() config.MilvusConfig {
	return c.cfg
}

// HealthCheck verifies the server answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.mc.CheckHealth(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "milvus health check failed")
	}
	return nil
}

// Close shuts down the connection.  Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.mc.Close(); err != nil {
		c.log.Error("failed to close milvus client", logging.Err(err))
		return err
	}
	c.log.Info("closed milvus client")
	return nil
}
