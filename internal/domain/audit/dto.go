package audit

import (
	"strconv"

	"github.com/theglobal/uren-backend-go/internal/pkg/validator"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type ListEventsQuery struct {
	WorkerID  *string `json:"worker_id,omitempty"`
	EventType *string `json:"event_type,omitempty"`
	Limit     string  `json:"limit,omitempty"`
}

// Filter validates the query and converts it to a store filter.
func (q ListEventsQuery) Filter() (Filter, error) {
	var errs validator.ValidationErrors
	f := Filter{WorkerID: q.WorkerID, Limit: DefaultListLimit}

	if q.EventType != nil {
		validTypes := []string{string(EventClockedIn), string(EventClockedOut), string(EventAdmissionRejected)}
		if !validator.IsInSlice(*q.EventType, validTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "event_type",
				Message: "event_type must be one of: clocked_in, clocked_out, admission_rejected",
			})
		} else {
			t := EventType(*q.EventType)
			f.EventType = &t
		}
	}

	if q.Limit != "" {
		n, err := strconv.Atoi(q.Limit)
		if err != nil || n <= 0 || n > MaxListLimit {
			errs = append(errs, validator.ValidationError{
				Field:   "limit",
				Message: "limit must be a number between 1 and 500",
			})
		} else {
			f.Limit = n
		}
	}

	if len(errs) > 0 {
		return Filter{}, errs
	}
	return f, nil
}

type EventResponse struct {
	ID                   string   `json:"id"`
	Type                 string   `json:"event_type"`
	WorkerID             string   `json:"worker_id"`
	WorkerName           string   `json:"worker_name"`
	SessionID            *string  `json:"session_id,omitempty"`
	SiteID               *string  `json:"site_id,omitempty"`
	DistanceM            *float64 `json:"distance_m,omitempty"`
	WithinReportRadius   *bool    `json:"within_report_radius,omitempty"`
	WithinAdvisoryRadius *bool    `json:"within_advisory_radius,omitempty"`
	Warning              *string  `json:"warning,omitempty"`
	Reason               *string  `json:"reason,omitempty"`
	OccurredAt           string   `json:"occurred_at"`
}
