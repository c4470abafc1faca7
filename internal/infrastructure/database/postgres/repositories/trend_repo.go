package repositories

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	appErrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TrendRepository
// ─────────────────────────────────────────────────────────────────────────────

// TrendRepository is the PostgreSQL trend aggregation source.  Grouping and
// capping happen in SQL; the service never sees unbounded row sets.
type TrendRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewTrendRepository constructs a ready-to-use TrendRepository.
func NewTrendRepository(pool *pgxpool.Pool, log logging.Logger) *TrendRepository {
	return &TrendRepository{pool: pool, log: log.Named("trend_repo")}
}

// trendWhere builds the shared filter conditions: the inclusive year window
// plus the optional country and CPC-prefix constraints.
func trendWhere(filter trend.Filter, fromYear, toYear int) *whereBuilder {
	var b whereBuilder
	b.addf("filing_date IS NOT NULL")
	b.addf("EXTRACT(YEAR FROM filing_date) BETWEEN ? AND ?", fromYear, toYear)
	if filter.Country != "" {
		b.addf("country = ?", filter.Country)
	}
	if filter.CPCPrefix != "" {
		b.addf(`EXISTS (
			SELECT 1 FROM unnest(cpc_codes) AS code WHERE code LIKE ? || '%'
		)`, filter.CPCPrefix)
	}
	return &b
}

// YearlyCounts buckets filings by filing year.  Empty years are absent; the
// service densifies the window.
func (r *TrendRepository) YearlyCounts(ctx context.Context, filter trend.Filter, fromYear, toYear int) ([]trend.YearCount, error) {
	b := trendWhere(filter, fromYear, toYear)
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM filing_date)::int AS year, COUNT(*)
		FROM patents`+b.where()+`
		GROUP BY year
		ORDER BY year ASC`, b.args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "yearly counts failed")
	}
	defer rows.Close()

	var out []trend.YearCount
	for rows.Next() {
		var yc trend.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan year count")
		}
		out = append(out, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "yearly count rows failed")
	}
	return out, nil
}

// ClassCounts counts filings per 4-character CPC class.  A patent carrying
// codes from several classes counts once per class, matching how landscape
// reports bucket technology areas.
func (r *TrendRepository) ClassCounts(ctx context.Context, filter trend.Filter, fromYear, toYear int) (map[string]int64, error) {
	b := trendWhere(filter, fromYear, toYear)
	rows, err := r.pool.Query(ctx, `
		SELECT LEFT(code, 4) AS cpc_class, COUNT(DISTINCT patent_number)
		FROM patents, unnest(cpc_codes) AS code`+b.where()+`
		GROUP BY cpc_class`, b.args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "class counts failed")
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var class string
		var count int64
		if err := rows.Scan(&class, &count); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan class count")
		}
		out[class] = count
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "class count rows failed")
	}
	return out, nil
}

// AssigneeCounts ranks organizations by filing count, capped at limit.
func (r *TrendRepository) AssigneeCounts(ctx context.Context, filter trend.Filter, fromYear, toYear, limit int) ([]trend.AssigneeCount, error) {
	b := trendWhere(filter, fromYear, toYear)
	b.addf("assignee_organization <> ?", "")
	limitArg := b.next()
	args := append(b.args, limit)

	rows, err := r.pool.Query(ctx, `
		SELECT assignee_organization, COUNT(*) AS total
		FROM patents`+b.where()+`
		GROUP BY assignee_organization
		ORDER BY total DESC, assignee_organization ASC
		LIMIT $`+strconv.Itoa(limitArg), args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "assignee counts failed")
	}
	defer rows.Close()

	var out []trend.AssigneeCount
	for rows.Next() {
		var ac trend.AssigneeCount
		if err := rows.Scan(&ac.Assignee, &ac.Count); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan assignee count")
		}
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "assignee count rows failed")
	}
	return out, nil
}
