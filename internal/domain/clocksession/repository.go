package clocksession

import (
	"context"
	"time"
)

// Repository is the session ledger.
type Repository interface {
	// FindOpen returns the worker's open session, or nil when there is none.
	FindOpen(ctx context.Context, workerID string) (*Session, error)

	// Append stores a new open session. It fails with ErrAlreadyClockedIn when the
	// worker already has one; the check and the insert are atomic.
	Append(ctx context.Context, s Session) (Session, error)

	GetByID(ctx context.Context, id string) (Session, error)

	// Close persists a closed session only if it is still open in storage,
	// otherwise ErrAlreadyClosed.
	Close(ctx context.Context, s Session) (Session, error)

	List(ctx context.Context, filter SessionFilter) ([]Session, error)
	ListClosed(ctx context.Context, filter AggregateFilter) ([]Session, error)
	ListStaleOpen(ctx context.Context, openedBefore time.Time) ([]Session, error)

	// Delete removes the session and its position logs.
	Delete(ctx context.Context, id string) error
}

type PositionLogRepository interface {
	Append(ctx context.Context, p PositionLog) (PositionLog, error)
	ListBySession(ctx context.Context, sessionID string) ([]PositionLog, error)
}

// SessionFilter narrows List. Time bounds are half-open: [OpenedFrom, OpenedTo).
// Results are ordered newest first.
type SessionFilter struct {
	WorkerID   *string
	Status     *Status
	OpenedFrom *time.Time
	OpenedTo   *time.Time
}

// AggregateFilter narrows ListClosed. Empty id slices match everything.
// Results are ordered oldest first.
type AggregateFilter struct {
	OpenedFrom *time.Time
	OpenedTo   *time.Time
	SiteIDs    []string
	WorkerIDs  []string
}
