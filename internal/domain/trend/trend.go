// Package trend defines the trend aggregation types and the aggregate-query
// port the trend service runs on.
package trend

import (
	"context"
)

// Filter restricts trend aggregation to a slice of the corpus.  CPCPrefix is
// matched as a code prefix, Country as an exact match; blank fields are
// unconstrained.
type Filter struct {
	CPCPrefix string `json:"cpc_prefix,omitempty"`
	Country   string `json:"country,omitempty"`
}

// YearCount is one filing-year bucket.
type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// ClassCount is a patent count for one 4-character CPC class.
type ClassCount struct {
	CPCClass string `json:"cpc_class"`
	Count    int64  `json:"count"`
}

// GrowthLeader compares a CPC class across the window's two halves.
type GrowthLeader struct {
	CPCClass     string  `json:"cpc_class"`
	EarlierCount int64   `json:"earlier_count"`
	RecentCount  int64   `json:"recent_count"`
	GrowthRate   float64 `json:"growth_rate"`
}

// AssigneeCount is a filing count for one organization.
type AssigneeCount struct {
	Assignee string `json:"assignee"`
	Count    int64  `json:"count"`
}

// Report is the full trend aggregation output.  Period is the inclusive year
// window rendered as "from-to".
type Report struct {
	Period        string          `json:"period"`
	YearlyTotals  []YearCount     `json:"yearly_totals"`
	TopCPCTrends  []ClassCount    `json:"top_cpc_trends"`
	GrowthLeaders []GrowthLeader  `json:"growth_leaders"`
	TopAssignees  []AssigneeCount `json:"top_assignees"`
}

// Source supplies the grouped aggregates the trend service composes.  All
// year bounds are inclusive.  Implementations push grouping and capping into
// the query layer; result order for the ranked queries is count descending
// with ties broken by name ascending.
type Source interface {
	// YearlyCounts buckets filings by filing year across [fromYear, toYear].
	// Years with no filings may be absent from the result.
	YearlyCounts(ctx context.Context, filter Filter, fromYear, toYear int) ([]YearCount, error)

	// ClassCounts counts filings per 4-character CPC class across the window.
	// A patent carrying codes from several classes counts once per class.
	ClassCounts(ctx context.Context, filter Filter, fromYear, toYear int) (map[string]int64, error)

	// AssigneeCounts ranks organizations by filing count across the window,
	// capped at limit.
	AssigneeCounts(ctx context.Context, filter Filter, fromYear, toYear, limit int) ([]AssigneeCount, error)
}
