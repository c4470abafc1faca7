package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ReportStore implements the trend exporter's store port: Put writes the
// payload and returns a presigned download URL.
type ReportStore struct {
	client *Client
	log    logging.Logger
}

// NewReportStore builds a store over the configured report bucket.
func NewReportStore(client *Client, log logging.Logger) *ReportStore {
	return &ReportStore{client: client, log: log}
}

// Put stores the payload under name and returns a time-limited download URL.
func (s *ReportStore) Put(ctx context.Context, name string, payload []byte, contentType string) (string, error) {
	if name == "" {
		return "", errors.Validation("report name is required")
	}
	if len(payload) == 0 {
		return "", errors.Validation("report payload is empty")
	}

	cfg := s.client.Config()

	_, err := s.client.api.PutObject(ctx, cfg.Bucket, name,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTrendReportFailed, "failed to store report")
	}

	link, err := s.client.api.PresignedGetObject(ctx, cfg.Bucket, name, cfg.PresignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeTrendReportFailed, "failed to presign report link")
	}

	s.log.Info("stored trend report",
		logging.String("object", name),
		logging.Int("bytes", len(payload)),
		logging.Duration("link_expiry", cfg.PresignExpiry),
	)
	return link.String(), nil
}
