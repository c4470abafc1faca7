// Package opensearch provides the optional OpenSearch full-text backend.  It
// serves the same TextSearcher port as the pg_trgm scorer; deployments pick
// one via the search.text_backend setting.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const defaultIndex = "patents"

// Client wraps the OpenSearch API client.
type Client struct {
	api *opensearchapi.Client
	cfg config.OpenSearchConfig
	log logging.Logger
}

// NewClient connects to OpenSearch and verifies the cluster answers.
func NewClient(ctx context.Context, cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.Validation("opensearch addresses are required")
	}
	if cfg.Index == "" {
		cfg.Index = defaultIndex
	}

	transport := &http.Transport{}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	api, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:     cfg.Addresses,
			Username:      cfg.User,
			Password:      cfg.Password,
			Transport:     transport,
			RetryOnStatus: []int{429, 502, 503, 504},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create opensearch client")
	}

	c := &Client{api: api, cfg: cfg, log: log}
	if err := c.HealthCheck(ctx); err != nil {
		return nil, err
	}

	log.Info("connected to OpenSearch",
		logging.String("index", cfg.Index),
		logging.Int("nodes", len(cfg.Addresses)),
	)
	return c, nil
}

// NewClientWithAPI wraps an existing API client, used by tests.
func NewClientWithAPI(api *opensearchapi.Client, cfg config.OpenSearchConfig, log logging.Logger) *Client {
	if cfg.Index == "" {
		cfg.Index = defaultIndex
	}
	return &Client{api: api, cfg: cfg, log: log}
}

// API exposes the underlying OpenSearch client.
func (c *Client) API() *opensearchapi.Client {
	return c.api
}

// Config returns the effective configuration.
func (c *Client) Config() config.OpenSearchConfig {
	return c.cfg
}

// HealthCheck pings the cluster.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "opensearch health check failed")
	}
	return nil
}
