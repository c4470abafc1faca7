package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// patentColumns is the projection shared by every patent query.
const patentColumns = `
	id, patent_number, title, COALESCE(abstract, ''),
	filing_date, grant_date, expiration_date,
	COALESCE(assignee_organization, ''), inventors, cpc_codes,
	status, country, citation_count, cited_by_count,
	embedding::text, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// PatentRepository
// ─────────────────────────────────────────────────────────────────────────────

// PatentRepository is the PostgreSQL implementation of the patent ports:
// lookup, counting, the pg_trgm full-text scorer, the pgvector semantic
// scorer, and the competitor query used by the landscape view.
type PatentRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewPatentRepository constructs a ready-to-use PatentRepository.
func NewPatentRepository(pool *pgxpool.Pool, log logging.Logger) *PatentRepository {
	return &PatentRepository{pool: pool, log: log.Named("patent_repo")}
}

// GetByNumber fetches a single patent by its canonical number.
func (r *PatentRepository) GetByNumber(ctx context.Context, number string) (*patent.Patent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+patentColumns+` FROM patents WHERE patent_number = $1`, number)
	p, err := scanPatent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodePatentNotFound, "patent not found: "+number)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to fetch patent")
	}
	return p, nil
}

// GetByNumbers fetches the subset of the given numbers that exist, keyed by
// patent number.
func (r *PatentRepository) GetByNumbers(ctx context.Context, numbers []string) (map[string]*patent.Patent, error) {
	if len(numbers) == 0 {
		return map[string]*patent.Patent{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+patentColumns+` FROM patents WHERE patent_number = ANY($1)`, numbers)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to fetch patents")
	}
	defer rows.Close()

	out := make(map[string]*patent.Patent, len(numbers))
	for rows.Next() {
		p, err := scanPatent(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan patent")
		}
		out[p.PatentNumber] = p
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "patent rows failed")
	}
	return out, nil
}

// Count returns the number of patents matching the filter.
func (r *PatentRepository) Count(ctx context.Context, filter patent.Filter) (int64, error) {
	var b whereBuilder
	b.applyFilter(filter)

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patents`+b.where(), b.args...).Scan(&total)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "patent count failed")
	}
	return total, nil
}

// CountEmbedded counts filtered patents carrying an embedding vector.
func (r *PatentRepository) CountEmbedded(ctx context.Context, filter patent.Filter) (int64, error) {
	var b whereBuilder
	b.conds = append(b.conds, "embedding IS NOT NULL")
	b.applyFilter(filter)

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patents`+b.where(), b.args...).Scan(&total)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "embedded patent count failed")
	}
	return total, nil
}

// ExpiringWithin lists active patents expiring in the next given number of
// days, soonest first.
func (r *PatentRepository) ExpiringWithin(ctx context.Context, days, limit int) ([]*patent.Patent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patentColumns+`
		FROM patents
		WHERE status = 'active'
		  AND expiration_date >= CURRENT_DATE
		  AND expiration_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY expiration_date ASC, patent_number ASC
		LIMIT $2`, days, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "expiring patent query failed")
	}
	defer rows.Close()
	return collectPatents(rows)
}

// SearchText is the pg_trgm scorer.  Relevance is the greater of the title
// and abstract trigram similarities; candidate selection uses the trigram
// operator plus substring matches on number and assignee so the GIN indexes
// stay in play.
func (r *PatentRepository) SearchText(ctx context.Context, query string, filter patent.Filter, limit, offset int) ([]patent.ScoredPatent, int64, error) {
	var b whereBuilder
	b.addf(`(title % ? OR COALESCE(abstract, '') % ? OR patent_number ILIKE ? OR assignee_organization ILIKE ?)`,
		query, query, "%"+query+"%", "%"+query+"%")
	b.applyFilter(filter)
	where := b.where()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patents`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "fulltext count failed")
	}

	scoreArg := b.next()
	args := append(b.args, query)
	sql := fmt.Sprintf(`
		SELECT %s, GREATEST(similarity(title, $%d), similarity(COALESCE(abstract, ''), $%d)) AS score
		FROM patents%s
		ORDER BY score DESC, patent_number ASC
		LIMIT %d OFFSET %d`,
		patentColumns, scoreArg, scoreArg, where, limit, offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "fulltext query failed")
	}
	defer rows.Close()

	scored, err := collectScored(rows)
	if err != nil {
		return nil, 0, err
	}
	return scored, total, nil
}

// SearchVector is the pgvector scorer.  Relevance is 1 - cosine distance,
// clamped to [0,1]; ordering leans on the vector index via the distance
// operator.
func (r *PatentRepository) SearchVector(ctx context.Context, vector []float32, filter patent.Filter, limit, offset int) ([]patent.ScoredPatent, int64, error) {
	var b whereBuilder
	b.conds = append(b.conds, "embedding IS NOT NULL")
	b.applyFilter(filter)
	where := b.where()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patents`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "semantic count failed")
	}

	vecArg := b.next()
	args := append(b.args, vectorLiteral(vector))
	sql := fmt.Sprintf(`
		SELECT %s, GREATEST(0, 1 - (embedding <=> $%d::vector)) AS score
		FROM patents%s
		ORDER BY embedding <=> $%d::vector ASC, patent_number ASC
		LIMIT %d OFFSET %d`,
		patentColumns, vecArg, where, vecArg, limit, offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "semantic query failed")
	}
	defer rows.Close()

	scored, err := collectScored(rows)
	if err != nil {
		return nil, 0, err
	}
	return scored, total, nil
}

// TopCitedByClass lists the most-cited patents sharing any of the CPC codes
// but held by a different organization.
func (r *PatentRepository) TopCitedByClass(ctx context.Context, cpcCodes []string, excludeAssignee string, limit int) ([]*patent.Patent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patentColumns+`
		FROM patents
		WHERE cpc_codes && $1
		  AND assignee_organization <> $2
		ORDER BY cited_by_count DESC, patent_number ASC
		LIMIT $3`, cpcCodes, excludeAssignee, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "competitor query failed")
	}
	defer rows.Close()
	return collectPatents(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanPatent(row pgx.Row) (*patent.Patent, error) {
	var p patent.Patent
	var embedding *string
	err := row.Scan(
		&p.ID, &p.PatentNumber, &p.Title, &p.Abstract,
		&p.FilingDate, &p.GrantDate, &p.ExpirationDate,
		&p.AssigneeOrganization, &p.Inventors, &p.CPCCodes,
		&p.Status, &p.Country, &p.CitationCount, &p.CitedByCount,
		&embedding, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if embedding != nil {
		vec, perr := parseVector(*embedding)
		if perr != nil {
			return nil, perr
		}
		p.EmbeddingVector = vec
	}
	return &p, nil
}

func collectPatents(rows pgx.Rows) ([]*patent.Patent, error) {
	var out []*patent.Patent
	for rows.Next() {
		p, err := scanPatent(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan patent")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "patent rows failed")
	}
	return out, nil
}

func collectScored(rows pgx.Rows) ([]patent.ScoredPatent, error) {
	var out []patent.ScoredPatent
	for rows.Next() {
		var p patent.Patent
		var embedding *string
		var score float64
		err := rows.Scan(
			&p.ID, &p.PatentNumber, &p.Title, &p.Abstract,
			&p.FilingDate, &p.GrantDate, &p.ExpirationDate,
			&p.AssigneeOrganization, &p.Inventors, &p.CPCCodes,
			&p.Status, &p.Country, &p.CitationCount, &p.CitedByCount,
			&embedding, &p.CreatedAt, &p.UpdatedAt,
			&score,
		)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan scored patent")
		}
		if embedding != nil {
			vec, perr := parseVector(*embedding)
			if perr != nil {
				return nil, perr
			}
			p.EmbeddingVector = vec
		}
		out = append(out, patent.ScoredPatent{Patent: &p, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "scored rows failed")
	}
	return out, nil
}

// vectorLiteral renders a float32 slice in pgvector's input syntax.
func vectorLiteral(vec []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// parseVector reads pgvector's text output back into a float32 slice.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "malformed embedding vector")
		}
		out = append(out, float32(f))
	}
	return out, nil
}
