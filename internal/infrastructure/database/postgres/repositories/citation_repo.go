package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// CitationRepository
// ─────────────────────────────────────────────────────────────────────────────

// CitationRepository is the PostgreSQL edge and stats source for the citation
// graph.  Edges live in a citations(citing_patent_number, cited_patent_number)
// relation; cited numbers are stored raw, so a forward edge can point at a
// patent outside the local corpus.
type CitationRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewCitationRepository constructs a ready-to-use CitationRepository.
func NewCitationRepository(pool *pgxpool.Pool, log logging.Logger) *CitationRepository {
	return &CitationRepository{pool: pool, log: log.Named("citation_repo")}
}

// Forward returns the cited numbers per citing number, ordered by cited
// number so truncated traversals are repeatable.
func (r *CitationRepository) Forward(ctx context.Context, citing []string) (map[string][]string, error) {
	return r.edges(ctx, `
		SELECT citing_patent_number, cited_patent_number
		FROM citations
		WHERE citing_patent_number = ANY($1)
		ORDER BY citing_patent_number ASC, cited_patent_number ASC`, citing)
}

// Backward returns the citing numbers per cited number.  The join is
// restricted to locally known citing patents by construction: only ingested
// patents produce citation rows.
func (r *CitationRepository) Backward(ctx context.Context, cited []string) (map[string][]string, error) {
	return r.edges(ctx, `
		SELECT cited_patent_number, citing_patent_number
		FROM citations
		WHERE cited_patent_number = ANY($1)
		ORDER BY cited_patent_number ASC, citing_patent_number ASC`, cited)
}

func (r *CitationRepository) edges(ctx context.Context, sql string, keys []string) (map[string][]string, error) {
	if len(keys) == 0 {
		return map[string][]string{}, nil
	}
	rows, err := r.pool.Query(ctx, sql, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "citation edge query failed")
	}
	defer rows.Close()

	out := make(map[string][]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan citation edge")
		}
		out[key] = append(out[key], value)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "citation edge rows failed")
	}
	return out, nil
}

// ForwardCount is the number of patents the given one cites.
func (r *CitationRepository) ForwardCount(ctx context.Context, number string) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM citations WHERE citing_patent_number = $1`, number)
}

// BackwardCount is the number of patents citing the given one.
func (r *CitationRepository) BackwardCount(ctx context.Context, number string) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM citations WHERE cited_patent_number = $1`, number)
}

func (r *CitationRepository) count(ctx context.Context, sql, number string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, sql, number).Scan(&n); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "citation count failed")
	}
	return n, nil
}

// CohortAvgBackward averages the denormalized cited_by_count over patents
// sharing the filing year and at least one CPC code prefix.
func (r *CitationRepository) CohortAvgBackward(ctx context.Context, year int, cpcCodes []string) (float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(cited_by_count)
		FROM patents
		WHERE EXTRACT(YEAR FROM filing_date) = $1
		  AND cpc_codes && $2`, year, cpcCodes).Scan(&avg)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "cohort average failed")
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
