// Package search implements the hybrid search engine: full-text and semantic
// scoring behind a common filter predicate, and reciprocal rank fusion of the
// two ranked lists for hybrid mode.
package search

import (
	"context"
	"strings"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Mode selects the scoring path for a search request.
type Mode string

const (
	ModeFullText Mode = "fulltext"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

// IsValid checks if the mode is one of the known enum values.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFullText, ModeSemantic, ModeHybrid:
		return true
	default:
		return false
	}
}

func (m Mode) String() string { return string(m) }

// ParseMode parses a string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	if m.IsValid() {
		return m, nil
	}
	return "", apperrors.New(apperrors.ErrCodeSearchModeInvalid, "unsupported search mode: "+s)
}

// Request carries one search execution's parameters.
type Request struct {
	Query  string        `json:"query"`
	Mode   Mode          `json:"search_type"`
	Filter patent.Filter `json:"filters"`

	// SemanticWeight is only consulted in hybrid mode; nil means the
	// configured default.  Must be in [0,1] when set.
	SemanticWeight *float64 `json:"semantic_weight,omitempty"`

	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// SimilarOptions tunes similar-patent lookups.  TopK must be >= 1; MinScore
// drops results scoring below the floor; ExcludeSameAssignee removes patents
// held by the reference patent's assignee.
type SimilarOptions struct {
	TopK                int     `json:"top_k"`
	MinScore            float64 `json:"min_score,omitempty"`
	ExcludeSameAssignee bool    `json:"exclude_same_assignee,omitempty"`
}

// Response is the paginated search output.
type Response struct {
	Results    []patent.ScoredPatent `json:"results"`
	Total      int64                 `json:"total"`
	Query      string                `json:"query"`
	Mode       Mode                  `json:"search_type"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`

	// ZeroCoverage is set when the semantic side found no embedded patents in
	// the filtered set.  In hybrid mode this means the ranking degraded to
	// full-text only; it is informational, never an error.
	ZeroCoverage bool `json:"zero_coverage,omitempty"`
}

// Embedder is the embedding capability consumed by the semantic scorer.
// Failures are reported as ErrCodeEmbeddingUnavailable; the hybrid path
// recovers from them by falling back to full-text ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
