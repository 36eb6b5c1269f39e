package audit

import (
	"context"
	"time"
)

type EventType string

const (
	EventClockedIn         EventType = "clocked_in"
	EventClockedOut        EventType = "clocked_out"
	EventAdmissionRejected EventType = "admission_rejected"
)

// Rejection reasons carried by EventAdmissionRejected.
const (
	ReasonOutOfRange          = "out_of_range"
	ReasonSiteMissingLocation = "site_missing_location"
)

// Event records a clock decision. SessionID is empty for rejected admissions.
type Event struct {
	ID                   string
	Type                 EventType
	WorkerID             string
	WorkerName           string
	SessionID            string
	SiteID               string
	DistanceM            *float64
	WithinReportRadius   *bool
	WithinAdvisoryRadius *bool
	Warning              *string
	Reason               *string
	OccurredAt           time.Time
}

// Sink receives audit events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// Store persists events for later inspection.
type Store interface {
	Append(ctx context.Context, e Event) error
	List(ctx context.Context, filter Filter) ([]Event, error)
}

// Filter narrows Store.List. Results are newest first.
type Filter struct {
	WorkerID  *string
	EventType *EventType
	Limit     int
}
