package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// indexMapping keeps patent_number a keyword so the tie-break sort works,
// and analyzes title/abstract with the english analyzer.
const indexMapping = `{
  "settings": {
    "number_of_shards": 2,
    "number_of_replicas": 1
  },
  "mappings": {
    "properties": {
      "patent_number":         {"type": "keyword"},
      "title":                 {"type": "text", "analyzer": "english"},
      "abstract":              {"type": "text", "analyzer": "english"},
      "assignee_organization": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "inventors":             {"type": "keyword"},
      "cpc_codes":             {"type": "keyword"},
      "status":                {"type": "keyword"},
      "country":               {"type": "keyword"},
      "filing_date":           {"type": "date"},
      "grant_date":            {"type": "date"},
      "expiration_date":       {"type": "date"},
      "citation_count":        {"type": "integer"},
      "cited_by_count":        {"type": "integer"}
    }
  }
}`

// Indexer maintains the patent documents in the search index.  The ingestion
// worker calls it after Postgres writes so the lexical backend stays in sync.
type Indexer struct {
	client *Client
	log    logging.Logger
}

// NewIndexer builds an indexer for the configured patent index.
func NewIndexer(c *Client, log logging.Logger) *Indexer {
	return &Indexer{client: c, log: log}
}

// EnsureIndex creates the index with its mapping if it does not exist.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	index := ix.client.Config().Index

	_, err := ix.client.API().Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{index},
	})
	if err == nil {
		return nil
	}

	_, err = ix.client.API().Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: index,
		Body:  strings.NewReader(indexMapping),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create search index")
	}

	ix.log.Info("created search index", logging.String("index", index))
	return nil
}

// BulkIndex writes the given patents in one bulk request, keyed by patent
// number.  Embedding vectors are stripped; they belong to the vector backend.
func (ix *Indexer) BulkIndex(ctx context.Context, patents []*patent.Patent) (int, error) {
	if len(patents) == 0 {
		return 0, nil
	}
	index := ix.client.Config().Index

	var buf bytes.Buffer
	for _, p := range patents {
		doc := *p
		doc.EmbeddingVector = nil

		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":%q}}`+"\n", index, p.PatentNumber)
		line, err := json.Marshal(&doc)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode patent document")
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	resp, err := ix.client.API().Bulk(ctx, opensearchapi.BulkReq{Body: &buf})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "bulk index failed")
	}
	if resp.Errors {
		return 0, errors.New(errors.ErrCodeDatabaseError, "bulk index reported item failures")
	}

	ix.log.Debug("indexed patents", logging.Int("count", len(patents)))
	return len(patents), nil
}

// Delete removes a patent document.
func (ix *Indexer) Delete(ctx context.Context, number string) error {
	index := ix.client.Config().Index

	_, err := ix.client.API().Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: number,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete patent document")
	}
	return nil
}
