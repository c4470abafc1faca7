package patent

import (
	"context"
)

// Repository is the persistence port for patent records.  Implementations
// return *errors.AppError with ErrCodePatentNotFound when a referenced number
// does not exist and ErrCodeDatabaseError for infrastructure failures.
type Repository interface {
	// GetByNumber fetches a single patent by its canonical number.
	GetByNumber(ctx context.Context, number string) (*Patent, error)

	// GetByNumbers fetches the subset of the given numbers that exist,
	// keyed by patent number.  Missing numbers are simply absent from the
	// result; they are not an error.
	GetByNumbers(ctx context.Context, numbers []string) (map[string]*Patent, error)

	// Count returns the number of patents matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)

	// CountEmbedded returns the number of patents matching the filter that
	// carry an embedding vector.  The hybrid engine uses a zero count as the
	// semantic zero-coverage signal.
	CountEmbedded(ctx context.Context, filter Filter) (int64, error)

	// ExpiringWithin lists patents whose expiration date falls in the next
	// given number of days, soonest first, capped at limit.
	ExpiringWithin(ctx context.Context, days, limit int) ([]*Patent, error)
}

// TextSearcher is the full-text scoring port.  Candidates are patents whose
// title, abstract, patent number, or assignee organization textually overlap
// the query; the score is max(similarity(title, query),
// similarity(abstract, query)) in [0,1].  Results are ordered descending by
// score with ties broken by patent number ascending, and the result cap is
// applied at the query layer, never after loading unbounded rows.
type TextSearcher interface {
	SearchText(ctx context.Context, query string, filter Filter, limit, offset int) ([]ScoredPatent, int64, error)
}

// VectorSearcher is the semantic scoring port.  Candidates are restricted to
// patents with a stored embedding; the score is 1 - cosine distance, clamped
// to [0,1], ordered and tie-broken like SearchText.
type VectorSearcher interface {
	SearchVector(ctx context.Context, vector []float32, filter Filter, limit, offset int) ([]ScoredPatent, int64, error)
}
