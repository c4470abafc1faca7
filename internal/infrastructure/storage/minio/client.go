// Package minio stores exported trend reports in S3-compatible object
// storage and hands out presigned download links.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const (
	defaultBucket        = "trend-reports"
	defaultPresignExpiry = 24 * time.Hour
)

// API is the slice of the minio SDK the report store uses.
type API interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client wraps the minio SDK client.
type Client struct {
	api API
	cfg config.MinIOConfig
	log logging.Logger
}

// NewClient connects to object storage and verifies the bucket is reachable,
// creating it when absent.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.Validation("minio endpoint is required")
	}
	applyDefaults(&cfg)

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: api, cfg: cfg, log: log}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation, used by tests.
func NewClientWithAPI(api API, cfg config.MinIOConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	return &Client{api: api, cfg: cfg, log: log}
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to reach object storage")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to create report bucket")
	}
	c.log.Info("created report bucket", logging.String("bucket", c.cfg.Bucket))
	return nil
}

// Config returns the effective configuration after defaults were applied.
func (c *Client) Config() config.MinIOConfig {
	return c.cfg
}

// HealthCheck verifies the bucket is still reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.cfg.Bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "object storage health check failed")
	}
	return nil
}
