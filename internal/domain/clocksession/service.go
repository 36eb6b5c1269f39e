package clocksession

import (
	"context"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
)

// ClockSessionService drives the clock-in/clock-out lifecycle and the hour reports built on it.
type ClockSessionService interface {
	// ClockIn opens a session after the strict admission check.
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)

	// ClockOut closes the worker's session. Distance only annotates.
	ClockOut(ctx context.Context, req ClockOutRequest) (SessionResponse, error)

	// LogPosition stores a GPS ping for an open session.
	LogPosition(ctx context.Context, req LogPositionRequest) (PositionLogResponse, error)

	GetStatus(ctx context.Context, workerID string) (StatusResponse, error)
	GetSession(ctx context.Context, id string, requester auth.Identity) (SessionResponse, error)

	// ListSessions returns sessions newest first; employees only ever see their own.
	ListSessions(ctx context.Context, requester auth.Identity, q ListSessionsQuery) ([]SessionResponse, error)

	ListPositions(ctx context.Context, sessionID string, requester auth.Identity) ([]PositionLogResponse, error)

	// DeleteSession is an administrative removal outside the session lifecycle.
	DeleteSession(ctx context.Context, id string, requester auth.Identity) error

	Overview(ctx context.Context, q OverviewQuery) (OverviewResponse, error)
	MyOverview(ctx context.Context, workerID string, q OverviewQuery) (OverviewResponse, error)
	Timesheet(ctx context.Context, q TimesheetQuery) (TimesheetResponse, error)
}
