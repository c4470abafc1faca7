// Package embedding calls the external embedding service over HTTP.  The
// provider exposes an OpenAI-compatible /embeddings endpoint; any failure is
// reported as EMB_001 so callers can degrade to text-only search.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second
	defaultModel   = "text-embedding-3-small"
)

// Client implements the search service's Embedder port.
type Client struct {
	cfg  config.EmbeddingConfig
	http *http.Client
	log  logging.Logger
}

// NewClient builds an embedding client.  BaseURL is required.
func NewClient(cfg config.EmbeddingConfig, log logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Validation("embedding base_url is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds several texts in one request, preserving input order.
// The ingestion worker uses this to backfill vectors in bulk.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.Validation("no texts to embed")
	}

	body, err := json.Marshal(embedRequest{Model: c.cfg.Model, Input: texts})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingUnavailable, "embedding service unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingUnavailable, "failed to read embedding response")
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("embedding service error",
			logging.Int("status", resp.StatusCode),
			logging.String("model", c.cfg.Model),
		)
		return nil, errors.Newf(errors.ErrCodeEmbeddingUnavailable,
			"embedding service returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingUnavailable, "malformed embedding response")
	}
	if parsed.Error != nil {
		return nil, errors.Newf(errors.ErrCodeEmbeddingUnavailable,
			"embedding service error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) != len(texts) {
		return nil, errors.Newf(errors.ErrCodeEmbeddingUnavailable,
			"embedding count mismatch: sent %d, got %d", len(texts), len(parsed.Data))
	}

	vecs := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if c.cfg.Dimension > 0 && len(d.Embedding) != c.cfg.Dimension {
			return nil, errors.New(errors.ErrCodeEmbeddingUnavailable,
				fmt.Sprintf("unexpected embedding dimension %d, want %d", len(d.Embedding), c.cfg.Dimension))
		}
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

// HealthCheck embeds a short probe string to verify the provider is up.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Embed(ctx, "ping")
	return err
}
