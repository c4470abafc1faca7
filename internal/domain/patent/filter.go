package patent

import (
	"strings"
	"time"

	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Filter is the structured filter applied identically by every scorer.
// All fields are optional; the zero value matches every patent.
//
// Matching rules:
//   - Country and Status require exact match.
//   - Assignee is a case-insensitive substring match against
//     assignee_organization.
//   - CPCCodes are treated as prefixes; a patent matches when any of its
//     codes starts with any filter value.
//   - DateFrom / DateTo bound filing_date inclusively; absent bounds are
//     unconstrained.  A patent with no filing date never matches a bounded
//     date filter.
type Filter struct {
	Country  string     `json:"country,omitempty"`
	Status   Status     `json:"status,omitempty"`
	Assignee string     `json:"assignee,omitempty"`
	CPCCodes []string   `json:"cpc_codes,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Country == "" && f.Status == "" && f.Assignee == "" &&
		len(f.CPCCodes) == 0 && f.DateFrom == nil && f.DateTo == nil
}

// Validate rejects structurally invalid filters.
func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return errors.New(errors.ErrCodeSearchFilterInvalid,
			"unsupported status filter: "+string(f.Status))
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return errors.New(errors.ErrCodeSearchFilterInvalid,
			"date_from must not be after date_to")
	}
	for _, code := range f.CPCCodes {
		if strings.TrimSpace(code) == "" {
			return errors.New(errors.ErrCodeSearchFilterInvalid,
				"cpc_codes must not contain blank entries")
		}
	}
	return nil
}

// Matches applies the filter predicate to a single patent.  The SQL adapters
// translate the same rules into WHERE clauses; this in-memory form serves the
// test store and post-filtering of backend results.
func (f Filter) Matches(p *Patent) bool {
	if p == nil {
		return false
	}
	if f.Country != "" && p.Country != f.Country {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Assignee != "" &&
		!strings.Contains(strings.ToLower(p.AssigneeOrganization), strings.ToLower(f.Assignee)) {
		return false
	}
	if len(f.CPCCodes) > 0 && !f.matchesCPC(p.CPCCodes) {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		if p.FilingDate == nil {
			return false
		}
		if f.DateFrom != nil && p.FilingDate.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && p.FilingDate.After(*f.DateTo) {
			return false
		}
	}
	return true
}

func (f Filter) matchesCPC(codes []string) bool {
	for _, have := range codes {
		for _, want := range f.CPCCodes {
			if strings.HasPrefix(have, want) {
				return true
			}
		}
	}
	return false
}
