package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Searcher scores patents by lexical relevance.  It implements the
// TextSearcher port: BM25 scores are normalized by the response max_score so
// callers always see [0,1], matching the trigram adapter's contract.
type Searcher struct {
	client *Client
	log    logging.Logger
}

// NewSearcher builds an OpenSearch-backed text searcher.
func NewSearcher(c *Client, log logging.Logger) *Searcher {
	return &Searcher{client: c, log: log}
}

// SearchText runs a multi-field match over title, abstract, patent number,
// and assignee, ordered by score descending with patent-number tie-breaks.
func (s *Searcher) SearchText(ctx context.Context, query string, filter patent.Filter, limit, offset int) ([]patent.ScoredPatent, int64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, errors.Validation("query must not be blank")
	}
	if limit <= 0 || offset < 0 {
		return nil, 0, errors.Validation("invalid result window")
	}

	body, err := json.Marshal(searchBody(query, filter, limit, offset))
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode search body")
	}

	resp, err := s.client.API().Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.client.Config().Index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeSearchFailed, "opensearch query failed")
	}

	total := int64(resp.Hits.Total.Value)
	if len(resp.Hits.Hits) == 0 {
		return nil, total, nil
	}

	maxScore := float64(resp.Hits.MaxScore)

	results := make([]patent.ScoredPatent, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var p patent.Patent
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeSearchFailed, "malformed patent document")
		}
		score := 0.0
		if maxScore > 0 {
			score = float64(hit.Score) / maxScore
		}
		results = append(results, patent.ScoredPatent{Patent: &p, Score: score})
	}

	s.log.Debug("text search executed",
		logging.Int("hits", len(results)),
		logging.Int64("total", total),
	)
	return results, total, nil
}

// searchBody builds the query DSL.  The filter context does not contribute
// to scoring, so adding predicates never perturbs relevance order.
func searchBody(query string, filter patent.Filter, limit, offset int) map[string]any {
	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"title^2", "abstract", "patent_number", "assignee_organization"},
		},
	}}

	var filters []map[string]any
	if filter.Country != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"country": filter.Country}})
	}
	if filter.Status != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"status": string(filter.Status)}})
	}
	if filter.Assignee != "" {
		filters = append(filters, map[string]any{
			"wildcard": map[string]any{
				"assignee_organization.keyword": map[string]any{
					"value":            "*" + filter.Assignee + "*",
					"case_insensitive": true,
				},
			},
		})
	}
	if len(filter.CPCCodes) > 0 {
		// any CPC prefix may match
		should := make([]map[string]any, 0, len(filter.CPCCodes))
		for _, code := range filter.CPCCodes {
			should = append(should, map[string]any{"prefix": map[string]any{"cpc_codes": code}})
		}
		filters = append(filters, map[string]any{
			"bool": map[string]any{"should": should, "minimum_should_match": 1},
		})
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		rng := map[string]any{}
		if filter.DateFrom != nil {
			rng["gte"] = filter.DateFrom.Format("2006-01-02")
		}
		if filter.DateTo != nil {
			rng["lte"] = filter.DateTo.Format("2006-01-02")
		}
		filters = append(filters, map[string]any{"range": map[string]any{"filing_date": rng}})
	}

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filters,
			},
		},
		"sort": []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
			{"patent_number": map[string]any{"order": "asc"}},
		},
		"from":             offset,
		"size":             limit,
		"track_total_hits": true,
	}
}
