// Package common holds the shared primitive types used across the
// patent-intelligence platform: identifiers, pagination, timestamps, and the
// generic API response envelope.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// Metadata is an open-ended key-value bag.
type Metadata map[string]interface{}

// BaseEntity carries audit metadata for domain entities and DTOs.
type BaseEntity struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Timestamp is a time.Time alias with RFC 3339 JSON serialization.
type Timestamp time.Time

// Pagination bounds.  PerPage outside [MinPerPage, MaxPerPage] is rejected by
// Validate; a zero value means "use DefaultPerPage".
const (
	MinPerPage     = 1
	MaxPerPage     = 100
	DefaultPerPage = 10
)

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Normalize fills in defaults for zero values without touching explicit input.
func (p Pagination) Normalize() Pagination {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Validate checks if pagination parameters are within valid bounds.
func (p Pagination) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1")
	}
	if p.PerPage < MinPerPage || p.PerPage > MaxPerPage {
		return fmt.Errorf("per_page must be between %d and %d", MinPerPage, MaxPerPage)
	}
	return nil
}

// Offset returns the SQL OFFSET value.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DateRange defines a closed date interval.  A zero From or To means the bound
// is open on that side.
type DateRange struct {
	From Timestamp `json:"from"`
	To   Timestamp `json:"to"`
}

// Validate checks if the date range is valid.
func (dr DateRange) Validate() error {
	from, to := time.Time(dr.From), time.Time(dr.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("invalid date range: 'from' must be before or equal to 'to'")
	}
	return nil
}

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success   bool         `json:"success"`
	Data      T            `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp Timestamp    `json:"timestamp"`
}

// PageResponse is a generic wrapper for paginated results.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse builds a PageResponse, deriving TotalPages as
// ceil(total / perPage).  An empty items slice is normalized to a non-nil
// slice so JSON output is always an array.
func NewPageResponse[T any](items []T, total int64, page, perPage int) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PageResponse[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message,omitempty"`
}

// Validate checks if the ID is a valid UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// NewTimestamp returns the current UTC time as a Timestamp.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler, using RFC 3339 format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// NewSuccessResponse creates a successful APIResponse.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: NewTimestamp(),
	}
}

// NewErrorResponse creates an error APIResponse.
func NewErrorResponse(code string, message string) APIResponse[any] {
	return APIResponse[any]{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
		Timestamp: NewTimestamp(),
	}
}

// ContextKey is the typed key used for request-scoped context values.
type ContextKey string

const (
	// ContextKeyRequestID is the context key for the per-request correlation ID.
	ContextKeyRequestID ContextKey = "request_id"
)
