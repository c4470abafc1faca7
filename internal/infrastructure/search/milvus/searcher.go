package milvus

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
	"github.com/dmhernandez2525/patent-intelligence/pkg/similarity"
)

const searchEf = 64

// Searcher scores patents by cosine similarity against the Milvus collection
// and hydrates hits from the patent repository.  It implements the semantic
// scoring port with the same ordering and clamping as the pgvector adapter.
type Searcher struct {
	client *Client
	repo   patent.Repository
	log    logging.Logger
}

// NewSearcher builds a Milvus-backed vector searcher.
func NewSearcher(c *Client, repo patent.Repository, log logging.Logger) *Searcher {
	return &Searcher{client: c, repo: repo, log: log}
}

// SearchVector returns the filtered patents nearest to the query vector.
// The total is the embedded candidate count under the filter, matching the
// pgvector adapter's semantics.
func (s *Searcher) SearchVector(ctx context.Context, vector []float32, filter patent.Filter, limit, offset int) ([]patent.ScoredPatent, int64, error) {
	if len(vector) == 0 {
		return nil, 0, errors.Validation("query vector is empty")
	}
	if limit <= 0 || offset < 0 {
		return nil, 0, errors.Validation("invalid result window")
	}

	total, err := s.repo.CountEmbedded(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	cfg := s.client.Config()

	// Overfetch so post-hydration filtering can drop hits without starving
	// the requested window.
	topK := (offset + limit) * 2
	if topK > cfg.DefaultTopK {
		topK = cfg.DefaultTopK
	}

	sp, err := entity.NewIndexHNSWSearchParam(searchEf)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to build search params")
	}

	results, err := s.client.Milvus().Search(ctx,
		cfg.Collection,
		nil,
		buildExpr(filter),
		[]string{fieldPatentNumber},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldEmbedding,
		entity.COSINE,
		topK,
		sp,
		client.WithSearchQueryConsistencyLevel(entity.ClBounded),
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "milvus search failed")
	}

	numbers, scores, err := collectHits(results)
	if err != nil {
		return nil, 0, err
	}
	if len(numbers) == 0 {
		return nil, total, nil
	}

	byNumber, err := s.repo.GetByNumbers(ctx, numbers)
	if err != nil {
		return nil, 0, err
	}

	scored := make([]patent.ScoredPatent, 0, len(numbers))
	for i, num := range numbers {
		p, ok := byNumber[num]
		if !ok || !filter.Matches(p) {
			continue
		}
		scored = append(scored, patent.ScoredPatent{Patent: p, Score: similarity.Clamp01(float64(scores[i]))})
	}

	if offset >= len(scored) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(scored) {
		end = len(scored)
	}
	return scored[offset:end], total, nil
}

// UpsertEmbeddings writes patent vectors and their coarse filter scalars.
// Patents without an embedding are skipped.
func (s *Searcher) UpsertEmbeddings(ctx context.Context, patents []*patent.Patent) (int, error) {
	cfg := s.client.Config()

	var (
		numbers   []string
		countries []string
		statuses  []string
		years     []int64
		vectors   [][]float32
	)
	for _, p := range patents {
		if !p.HasEmbedding() {
			continue
		}
		if len(p.EmbeddingVector) != cfg.EmbeddingDim {
			return 0, errors.Newf(errors.ErrCodeValidation,
				"patent %s has embedding dimension %d, collection expects %d",
				p.PatentNumber, len(p.EmbeddingVector), cfg.EmbeddingDim)
		}
		numbers = append(numbers, p.PatentNumber)
		countries = append(countries, p.Country)
		statuses = append(statuses, string(p.Status))
		years = append(years, int64(p.FilingYear()))
		vectors = append(vectors, p.EmbeddingVector)
	}
	if len(numbers) == 0 {
		return 0, nil
	}

	_, err := s.client.Milvus().Upsert(ctx, cfg.Collection, "",
		entity.NewColumnVarChar(fieldPatentNumber, numbers),
		entity.NewColumnVarChar(fieldCountry, countries),
		entity.NewColumnVarChar(fieldStatus, statuses),
		entity.NewColumnInt64(fieldFilingYear, years),
		entity.NewColumnFloatVector(fieldEmbedding, cfg.EmbeddingDim, vectors),
	)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "milvus upsert failed")
	}

	s.log.Debug("upserted embeddings", logging.Int("count", len(numbers)))
	return len(numbers), nil
}

// DeleteEmbeddings removes vectors for the given patent numbers.
func (s *Searcher) DeleteEmbeddings(ctx context.Context, numbers []string) error {
	if len(numbers) == 0 {
		return nil
	}
	quoted := make([]string, len(numbers))
	for i, n := range numbers {
		quoted[i] = quote(n)
	}
	expr := fmt.Sprintf("%s in [%s]", fieldPatentNumber, strings.Join(quoted, ","))

	cfg := s.client.Config()
	if err := s.client.Milvus().Delete(ctx, cfg.Collection, "", expr); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "milvus delete failed")
	}
	return nil
}

// buildExpr translates the coarse parts of the filter into a Milvus boolean
// expression.  Assignee, CPC, and exact date predicates are left to the
// post-hydration check.
func buildExpr(filter patent.Filter) string {
	var conds []string
	if filter.Country != "" {
		conds = append(conds, fmt.Sprintf("%s == %s", fieldCountry, quote(filter.Country)))
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("%s == %s", fieldStatus, quote(string(filter.Status))))
	}
	if filter.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("%s >= %d", fieldFilingYear, filter.DateFrom.Year()))
	}
	if filter.DateTo != nil {
		conds = append(conds, fmt.Sprintf("%s <= %d", fieldFilingYear, filter.DateTo.Year()))
	}
	return strings.Join(conds, " && ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func collectHits(results []client.SearchResult) ([]string, []float32, error) {
	var (
		numbers []string
		scores  []float32
	)
	for _, res := range results {
		col := res.Fields.GetColumn(fieldPatentNumber)
		if col == nil {
			return nil, nil, errors.New(errors.ErrCodeDatabaseError, "milvus result missing patent_number column")
		}
		for i := 0; i < res.ResultCount; i++ {
			num, err := col.GetAsString(i)
			if err != nil {
				return nil, nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "malformed milvus hit")
			}
			numbers = append(numbers, num)
			scores = append(scores, res.Scores[i])
		}
	}
	return numbers, scores, nil
}
