// Package patent implements the Patent bounded context: the aggregate record,
// status enum, number validation, and the search filter predicate.  All
// business rules that concern patents live here; infrastructure concerns
// (persistence, search backends) are handled by separate repository and
// adapter layers against the ports in repository.go.
package patent

import (
	"regexp"
	"strings"
	"time"

	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
	"github.com/dmhernandez2525/patent-intelligence/pkg/types/common"
)

// Status is the lifecycle state of a patent record.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusLapsed  Status = "lapsed"
)

// IsValid checks if the status is one of the known enum values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusLapsed:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(s))
	if st.IsValid() {
		return st, nil
	}
	return "", errors.New(errors.ErrCodePatentStatusInvalid, "unsupported patent status: "+s)
}

// rePatentNumber matches the canonical patent number format
// <country>-<digits>-<kind>, e.g. "US-9876543-B2" or "EP-2354060-A1".
// The kind code is one uppercase letter optionally followed by one digit.
var rePatentNumber = regexp.MustCompile(`^[A-Z]{2}-\d{4,}-[A-Z]\d?$`)

// ValidateNumber checks that number conforms to the canonical
// <country>-<digits>-<kind> format.
func ValidateNumber(number string) error {
	if number == "" {
		return errors.New(errors.ErrCodePatentNumberInvalid, "patent number must not be empty")
	}
	if !rePatentNumber.MatchString(number) {
		return errors.New(errors.ErrCodePatentNumberInvalid,
			"patent number must match <country>-<digits>-<kind>").WithDetail("number=" + number)
	}
	return nil
}

// CountryOf extracts the two-letter country prefix of a canonical patent
// number.  Returns "" when the number is malformed.
func CountryOf(number string) string {
	if i := strings.IndexByte(number, '-'); i == 2 {
		return number[:2]
	}
	return ""
}

// Patent is the record stored for each patent document.  Records are
// immutable once ingested; re-ingestion replaces the row wholesale, so the
// domain exposes no mutation methods.
type Patent struct {
	common.BaseEntity

	PatentNumber string `json:"patent_number"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract,omitempty"`

	FilingDate     *time.Time `json:"filing_date,omitempty"`
	GrantDate      *time.Time `json:"grant_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`

	AssigneeOrganization string   `json:"assignee_organization,omitempty"`
	Inventors            []string `json:"inventors,omitempty"`

	// CPCCodes is the ordered sequence of classification codes, each a
	// hierarchical code such as "H01L21/02".
	CPCCodes []string `json:"cpc_codes,omitempty"`

	Status  Status `json:"status"`
	Country string `json:"country"`

	// CitationCount is the number of forward citations this patent makes;
	// CitedByCount is the number of citations it has received.  Both are
	// denormalized counters maintained at ingestion time.
	CitationCount int `json:"citation_count"`
	CitedByCount  int `json:"cited_by_count"`

	// EmbeddingVector is present only when an embedding has been computed.
	EmbeddingVector []float32 `json:"embedding_vector,omitempty"`
}

// HasEmbedding reports whether an embedding vector is stored for the patent.
func (p *Patent) HasEmbedding() bool {
	return len(p.EmbeddingVector) > 0
}

// FilingYear returns the filing year, or 0 when no filing date is recorded.
func (p *Patent) FilingYear() int {
	if p.FilingDate == nil {
		return 0
	}
	return p.FilingDate.Year()
}

// SearchText returns the concatenation of the fields the full-text scorer
// matches against.
func (p *Patent) SearchText() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Title, p.Abstract, p.PatentNumber, p.AssigneeOrganization} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Validate checks the structural invariants of the record.
func (p *Patent) Validate() error {
	if err := ValidateNumber(p.PatentNumber); err != nil {
		return err
	}
	if p.Title == "" {
		return errors.Validation("patent title must not be empty")
	}
	if !p.Status.IsValid() {
		return errors.New(errors.ErrCodePatentStatusInvalid,
			"unsupported patent status: "+string(p.Status))
	}
	if p.Country == "" {
		return errors.Validation("patent country must not be empty")
	}
	return nil
}

// ScoredPatent pairs a patent with the relevance score computed for one query
// execution.  It is derived, ephemeral, and never persisted.
type ScoredPatent struct {
	Patent *Patent `json:"patent"`

	// Score is in [0,1] for full-text and semantic results.  For hybrid
	// results it is the normalized fusion score, clamped into [0,1].
	Score float64 `json:"relevance_score"`
}
