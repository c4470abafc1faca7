package milvus

import (
	"context"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Scalar fields mirrored from the patent record so coarse filters run inside
// Milvus.  Fine-grained predicates (assignee, CPC prefix, exact dates) are
// re-checked after hydration.
const (
	fieldPatentNumber = "patent_number"
	fieldCountry      = "country"
	fieldStatus       = "status"
	fieldFilingYear   = "filing_year"
	fieldEmbedding    = "embedding"
)

// EnsureCollection creates the embedding collection, its HNSW index, and
// loads it into memory.  Idempotent: an existing collection is loaded as-is.
func EnsureCollection(ctx context.Context, c *Client) error {
	mc := c.Milvus()
	cfg := c.Config()

	has, err := mc.HasCollection(ctx, cfg.Collection)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check milvus collection")
	}

	if !has {
		schema := entity.NewSchema().
			WithName(cfg.Collection).
			WithDescription("patent embedding vectors with coarse filter scalars").
			WithField(entity.NewField().
				WithName(fieldPatentNumber).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(32).
				WithIsPrimaryKey(true)).
			WithField(entity.NewField().
				WithName(fieldCountry).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(2)).
			WithField(entity.NewField().
				WithName(fieldStatus).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(16)).
			WithField(entity.NewField().
				WithName(fieldFilingYear).
				WithDataType(entity.FieldTypeInt64)).
			WithField(entity.NewField().
				WithName(fieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(cfg.EmbeddingDim)))

		if err := mc.CreateCollection(ctx, schema, 2); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create milvus collection")
		}

		idx, err := entity.NewIndexHNSW(entity.COSINE, 16, 200)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to build hnsw index definition")
		}
		if err := mc.CreateIndex(ctx, cfg.Collection, fieldEmbedding, idx, false); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create milvus index")
		}

		c.log.Info("created milvus collection",
			logging.String("collection", cfg.Collection),
			logging.Int("dimension", cfg.EmbeddingDim),
		)
	}

	if err := mc.LoadCollection(ctx, cfg.Collection, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load milvus collection")
	}
	return nil
}
