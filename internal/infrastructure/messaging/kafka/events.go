// Package kafka consumes patent-change events.  The ingestion pipeline
// publishes one event per corpus mutation; the worker reacts by invalidating
// cached search responses and syncing the secondary search backends.
package kafka

import "time"

// Change actions carried on the patent-change topic.
const (
	ActionIngested = "ingested"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
)

// PatentChangeEvent is the wire format of a corpus mutation.
type PatentChangeEvent struct {
	PatentNumber string    `json:"patent_number"`
	Action       string    `json:"action"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Valid reports whether the event carries a usable number and action.
func (e PatentChangeEvent) Valid() bool {
	if e.PatentNumber == "" {
		return false
	}
	switch e.Action {
	case ActionIngested, ActionUpdated, ActionDeleted:
		return true
	default:
		return false
	}
}
