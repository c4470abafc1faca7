package citation

import (
	"context"
)

// EdgeSource supplies the raw citation relation to the graph walker, one BFS
// frontier at a time.  Implementations exist for Postgres and neo4j; both
// must return results in a deterministic order so truncated traversals are
// repeatable.
type EdgeSource interface {
	// Forward returns, for each of the given citing numbers, the numbers it
	// cites.  Cited numbers need not exist as local patent rows.
	Forward(ctx context.Context, citing []string) (map[string][]string, error)

	// Backward returns, for each of the given cited numbers, the numbers of
	// local patents citing them.
	Backward(ctx context.Context, cited []string) (map[string][]string, error)
}

// StatsSource supplies the aggregates the impact calculator needs.
type StatsSource interface {
	// ForwardCount is the number of patents the given one cites.
	ForwardCount(ctx context.Context, number string) (int64, error)

	// BackwardCount is the number of patents citing the given one.
	BackwardCount(ctx context.Context, number string) (int64, error)

	// CohortAvgBackward is the average backward-citation count among patents
	// sharing the given filing year and at least one of the CPC codes.
	// Returns 0 when the cohort is empty.
	CohortAvgBackward(ctx context.Context, year int, cpcCodes []string) (float64, error)
}
