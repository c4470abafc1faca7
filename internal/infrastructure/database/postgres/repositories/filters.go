// Package repositories provides the PostgreSQL implementations of the domain
// ports: patent lookup and scoring, citation edges and aggregates, and trend
// aggregation.  Every query is parameterised and carries its caps in SQL;
// unbounded row sets are never loaded.
package repositories

import (
	"fmt"
	"strings"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
)

// whereBuilder accumulates WHERE conditions with positional placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

// addf appends a condition, rewriting each ? into the next positional
// placeholder.
func (b *whereBuilder) addf(cond string, args ...any) {
	for _, a := range args {
		b.args = append(b.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

// where renders the accumulated conditions, or an empty string when
// unconstrained.
func (b *whereBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the placeholder index the next bound argument will take.
func (b *whereBuilder) next() int {
	return len(b.args) + 1
}

// applyFilter translates the structured filter into SQL conditions, the same
// predicate every scorer applies.
func (b *whereBuilder) applyFilter(f patent.Filter) {
	if f.Country != "" {
		b.addf("country = ?", f.Country)
	}
	if f.Status != "" {
		b.addf("status = ?", string(f.Status))
	}
	if f.Assignee != "" {
		b.addf("assignee_organization ILIKE ?", "%"+f.Assignee+"%")
	}
	if len(f.CPCCodes) > 0 {
		// Prefix intersection: the patent matches when any of its codes
		// starts with any filter value.
		b.addf(`EXISTS (
			SELECT 1 FROM unnest(cpc_codes) AS code, unnest(?::text[]) AS prefix
			WHERE code LIKE prefix || '%'
		)`, f.CPCCodes)
	}
	if f.DateFrom != nil {
		b.addf("filing_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		b.addf("filing_date <= ?", *f.DateTo)
	}
}
