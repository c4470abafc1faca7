package milvus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

func TestClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClientWithMilvus(nil, config.MilvusConfig{Addr: "localhost:19530"}, logging.NewNopLogger())

	cfg := c.Config()
	assert.Equal(t, "default", cfg.DBName)
	assert.Equal(t, "patent_embeddings", cfg.Collection)
	assert.Equal(t, 768, cfg.EmbeddingDim)
	assert.Equal(t, 300, cfg.DefaultTopK)
}

func TestBuildExpr(t *testing.T) {
	t.Parallel()

	from := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter patent.Filter
		want   string
	}{
		{name: "empty", filter: patent.Filter{}, want: ""},
		{
			name:   "country only",
			filter: patent.Filter{Country: "US"},
			want:   `country == "US"`,
		},
		{
			name:   "country and status",
			filter: patent.Filter{Country: "US", Status: patent.StatusActive},
			want:   `country == "US" && status == "active"`,
		},
		{
			name:   "date bounds become filing year bounds",
			filter: patent.Filter{DateFrom: &from, DateTo: &to},
			want:   "filing_year >= 2015 && filing_year <= 2020",
		},
		{
			name:   "quotes escaped",
			filter: patent.Filter{Country: `U"S`},
			want:   `country == "U\"S"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, buildExpr(tt.filter))
		})
	}
}

func TestSearchVectorValidation(t *testing.T) {
	t.Parallel()

	s := NewSearcher(
		NewClientWithMilvus(nil, config.MilvusConfig{Addr: "localhost:19530"}, logging.NewNopLogger()),
		nil,
		logging.NewNopLogger(),
	)

	_, _, err := s.SearchVector(context.Background(), nil, patent.Filter{}, 10, 0)
	assert.True(t, errors.IsValidation(err))

	_, _, err = s.SearchVector(context.Background(), []float32{0.1}, patent.Filter{}, 0, 0)
	assert.True(t, errors.IsValidation(err))
}

func TestUpsertEmbeddingsDimensionMismatch(t *testing.T) {
	t.Parallel()

	s := NewSearcher(
		NewClientWithMilvus(nil, config.MilvusConfig{Addr: "localhost:19530", EmbeddingDim: 4}, logging.NewNopLogger()),
		nil,
		logging.NewNopLogger(),
	)

	_, err := s.UpsertEmbeddings(context.Background(), []*patent.Patent{{
		PatentNumber:    "US-1000000-A1",
		EmbeddingVector: []float32{0.1, 0.2},
	}})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestUpsertEmbeddingsSkipsUnembedded(t *testing.T) {
	t.Parallel()

	s := NewSearcher(
		NewClientWithMilvus(nil, config.MilvusConfig{Addr: "localhost:19530"}, logging.NewNopLogger()),
		nil,
		logging.NewNopLogger(),
	)

	n, err := s.UpsertEmbeddings(context.Background(), []*patent.Patent{
		{PatentNumber: "US-1000000-A1"},
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}
