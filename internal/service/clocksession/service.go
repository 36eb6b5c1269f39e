package clocksession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/lock"
	"github.com/theglobal/uren-backend-go/internal/pkg/metrics"
	geofenceService "github.com/theglobal/uren-backend-go/internal/service/geofence"
)

// defaultEmitTimeout bounds audit delivery for a single clock operation.
const defaultEmitTimeout = 5 * time.Second

type ClockSessionServiceImpl struct {
	sessions  clocksession.Repository
	positions clocksession.PositionLogRepository
	sites     site.SiteRepository
	policy    *geofenceService.Policy
	locker    lock.WorkerLocker
	audit     audit.Sink
	metrics   *metrics.Metrics
	logger    *slog.Logger

	// location is the timezone calendar dates are interpreted in.
	location    *time.Location
	now         func() time.Time
	emitTimeout time.Duration
}

func NewClockSessionService(
	sessions clocksession.Repository,
	positions clocksession.PositionLogRepository,
	sites site.SiteRepository,
	policy *geofenceService.Policy,
	locker lock.WorkerLocker,
	auditSink audit.Sink,
	m *metrics.Metrics,
	logger *slog.Logger,
	location *time.Location,
) clocksession.ClockSessionService {
	if locker == nil {
		locker = lock.NewLocalLocker(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &ClockSessionServiceImpl{
		sessions:    sessions,
		positions:   positions,
		sites:       sites,
		policy:      policy,
		locker:      locker,
		audit:       auditSink,
		metrics:     m,
		logger:      logger,
		location:    location,
		now:         time.Now,
		emitTimeout: defaultEmitTimeout,
	}
}

// ClockIn implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) ClockIn(ctx context.Context, req clocksession.ClockInRequest) (clocksession.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return clocksession.SessionResponse{}, err
	}

	created, event, err := s.admit(ctx, req)
	if event != nil {
		s.emit(ctx, *event)
	}
	if err != nil {
		return clocksession.SessionResponse{}, err
	}

	return MapSessionToResponse(created), nil
}

// admit opens a session under the worker lock. The returned event is emitted
// by the caller once the lock is released, also when admission fails.
func (s *ClockSessionServiceImpl) admit(ctx context.Context, req clocksession.ClockInRequest) (clocksession.Session, *audit.Event, error) {
	unlock, err := s.locker.Lock(ctx, req.WorkerID)
	if err != nil {
		return clocksession.Session{}, nil, fmt.Errorf("failed to lock worker: %w", err)
	}
	defer unlock()

	open, err := s.sessions.FindOpen(ctx, req.WorkerID)
	if err != nil {
		return clocksession.Session{}, nil, fmt.Errorf("failed to find open session: %w", err)
	}
	if open != nil {
		return clocksession.Session{}, nil, clocksession.ErrAlreadyClockedIn
	}

	st, err := s.sites.GetByID(ctx, req.SiteID)
	if err != nil {
		return clocksession.Session{}, nil, err
	}
	if !st.Active {
		return clocksession.Session{}, nil, site.ErrSiteNotFound
	}

	now := s.now().UTC()
	sample := clocksession.LocationSample{
		Coordinate: req.Location.Coordinate(),
		AccuracyM:  req.Location.AccuracyM,
		CapturedAt: now,
	}

	distance, err := s.policy.Measure(sample.Coordinate, st)
	if err != nil {
		if errors.Is(err, site.ErrSiteMissingLocation) {
			return clocksession.Session{}, s.reject(ctx, req, st, nil, audit.ReasonSiteMissingLocation, now), err
		}
		return clocksession.Session{}, nil, err
	}

	verdict, err := s.policy.EvaluateAdmission(distance, st)
	if err != nil {
		if errors.Is(err, geofence.ErrOutOfRange) {
			return clocksession.Session{}, s.reject(ctx, req, st, &distance, audit.ReasonOutOfRange, now), err
		}
		return clocksession.Session{}, nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return clocksession.Session{}, nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := clocksession.NewOpenSession(
		id.String(),
		clocksession.Worker{ID: req.WorkerID, Name: req.WorkerName},
		st,
		sample,
		verdict,
		req.Note,
		now,
	)

	created, err := s.sessions.Append(ctx, session)
	if err != nil {
		return clocksession.Session{}, nil, err
	}

	s.metrics.IncClockIn(distance)
	s.logger.InfoContext(ctx, "worker clocked in",
		slog.String("session_id", created.ID),
		slog.String("worker_id", created.WorkerID),
		slog.String("site_id", created.SiteID),
		slog.Float64("distance_m", distance),
	)

	return created, &audit.Event{
		Type:                 audit.EventClockedIn,
		WorkerID:             created.WorkerID,
		WorkerName:           created.WorkerName,
		SessionID:            created.ID,
		SiteID:               created.SiteID,
		DistanceM:            &distance,
		WithinReportRadius:   &verdict.WithinReportRadius,
		WithinAdvisoryRadius: &verdict.WithinAdvisoryRadius,
		Warning:              verdict.Warning,
		OccurredAt:           now,
	}, nil
}

// ClockOut implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) ClockOut(ctx context.Context, req clocksession.ClockOutRequest) (clocksession.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return clocksession.SessionResponse{}, err
	}

	closed, verdict, err := s.closeSession(ctx, req)
	if err != nil {
		return clocksession.SessionResponse{}, err
	}

	event := audit.Event{
		Type:       audit.EventClockedOut,
		WorkerID:   closed.WorkerID,
		WorkerName: closed.WorkerName,
		SessionID:  closed.ID,
		SiteID:     closed.SiteID,
		OccurredAt: *closed.ClosedAt,
	}
	if verdict != nil {
		event.DistanceM = &verdict.DistanceM
		event.WithinReportRadius = &verdict.WithinReportRadius
		event.WithinAdvisoryRadius = &verdict.WithinAdvisoryRadius
		event.Warning = verdict.Warning
	}
	s.emit(ctx, event)

	return MapSessionToResponse(closed), nil
}

func (s *ClockSessionServiceImpl) closeSession(ctx context.Context, req clocksession.ClockOutRequest) (clocksession.Session, *geofence.Verdict, error) {
	unlock, err := s.locker.Lock(ctx, req.WorkerID)
	if err != nil {
		return clocksession.Session{}, nil, fmt.Errorf("failed to lock worker: %w", err)
	}
	defer unlock()

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return clocksession.Session{}, nil, err
	}
	if session.WorkerID != req.WorkerID {
		return clocksession.Session{}, nil, clocksession.ErrNotAuthorized
	}
	if !session.IsOpen() {
		return clocksession.Session{}, nil, clocksession.ErrAlreadyClosed
	}

	now := s.now().UTC()
	sample := clocksession.LocationSample{
		Coordinate: req.Location.Coordinate(),
		AccuracyM:  req.Location.AccuracyM,
		CapturedAt: now,
	}
	verdict := s.advisory(ctx, session.SiteID, sample)

	if err := session.Close(now, sample, verdict, req.Note); err != nil {
		return clocksession.Session{}, nil, err
	}

	closed, err := s.sessions.Close(ctx, session)
	if err != nil {
		return clocksession.Session{}, nil, err
	}

	s.metrics.IncClockOut()
	s.logger.InfoContext(ctx, "worker clocked out",
		slog.String("session_id", closed.ID),
		slog.String("worker_id", closed.WorkerID),
		slog.Float64("duration_hours", *closed.DurationHours),
	)
	return closed, verdict, nil
}

// LogPosition implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) LogPosition(ctx context.Context, req clocksession.LogPositionRequest) (clocksession.PositionLogResponse, error) {
	if err := req.Validate(); err != nil {
		return clocksession.PositionLogResponse{}, err
	}

	unlock, err := s.locker.Lock(ctx, req.WorkerID)
	if err != nil {
		return clocksession.PositionLogResponse{}, fmt.Errorf("failed to lock worker: %w", err)
	}
	defer unlock()

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return clocksession.PositionLogResponse{}, err
	}
	if session.WorkerID != req.WorkerID {
		return clocksession.PositionLogResponse{}, clocksession.ErrNotAuthorized
	}
	if err := session.EnsureActive(); err != nil {
		return clocksession.PositionLogResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return clocksession.PositionLogResponse{}, fmt.Errorf("failed to generate position log id: %w", err)
	}

	now := s.now().UTC()
	sample := clocksession.LocationSample{
		Coordinate: req.LocationInput.Coordinate(),
		AccuracyM:  req.AccuracyM,
		CapturedAt: now,
	}

	entry := clocksession.PositionLog{
		ID:         id.String(),
		SessionID:  session.ID,
		WorkerID:   session.WorkerID,
		CapturedAt: now,
		Location:   sample.Coordinate,
		AccuracyM:  sample.AccuracyM,
	}
	if verdict := s.advisory(ctx, session.SiteID, sample); verdict != nil {
		distance := verdict.DistanceM
		within := verdict.WithinAdvisoryRadius
		entry.DistanceToSiteM = &distance
		entry.WithinRadius = &within
	}

	stored, err := s.positions.Append(ctx, entry)
	if err != nil {
		return clocksession.PositionLogResponse{}, fmt.Errorf("failed to store position: %w", err)
	}

	s.metrics.IncPositionLog()
	return MapPositionLogToResponse(stored), nil
}

// GetStatus implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) GetStatus(ctx context.Context, workerID string) (clocksession.StatusResponse, error) {
	open, err := s.sessions.FindOpen(ctx, workerID)
	if err != nil {
		return clocksession.StatusResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}
	if open == nil {
		return clocksession.StatusResponse{ClockedIn: false}, nil
	}

	resp := MapSessionToResponse(*open)
	return clocksession.StatusResponse{ClockedIn: true, Session: &resp}, nil
}

// GetSession implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) GetSession(ctx context.Context, id string, requester auth.Identity) (clocksession.SessionResponse, error) {
	session, err := s.getVisible(ctx, id, requester)
	if err != nil {
		return clocksession.SessionResponse{}, err
	}
	return MapSessionToResponse(session), nil
}

// ListSessions implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) ListSessions(ctx context.Context, requester auth.Identity, q clocksession.ListSessionsQuery) ([]clocksession.SessionResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filter := clocksession.SessionFilter{WorkerID: q.WorkerID}
	if !requester.IsAdmin() {
		workerID := requester.WorkerID
		filter.WorkerID = &workerID
	}
	if q.Status != nil && *q.Status != "" {
		status := clocksession.Status(*q.Status)
		filter.Status = &status
	}

	if q.Date != nil && *q.Date != "" {
		filter.OpenedFrom, filter.OpenedTo = s.dateRange(q.Date, q.Date)
	} else {
		filter.OpenedFrom, filter.OpenedTo = s.dateRange(q.StartDate, q.EndDate)
	}

	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return mapSessions(sessions), nil
}

// ListPositions implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) ListPositions(ctx context.Context, sessionID string, requester auth.Identity) ([]clocksession.PositionLogResponse, error) {
	if _, err := s.getVisible(ctx, sessionID, requester); err != nil {
		return nil, err
	}

	logs, err := s.positions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	responses := make([]clocksession.PositionLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, MapPositionLogToResponse(l))
	}
	return responses, nil
}

// DeleteSession implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) DeleteSession(ctx context.Context, id string, requester auth.Identity) error {
	if !requester.IsAdmin() {
		return auth.ErrAdminRequired
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "clock session deleted",
		slog.String("session_id", id),
		slog.String("deleted_by", requester.WorkerID),
	)
	return nil
}

// Overview implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) Overview(ctx context.Context, q clocksession.OverviewQuery) (clocksession.OverviewResponse, error) {
	if err := q.Validate(); err != nil {
		return clocksession.OverviewResponse{}, err
	}

	overview, err := s.aggregate(ctx, q, q.WorkerIDs)
	if err != nil {
		return clocksession.OverviewResponse{}, err
	}

	resp := mapOverview(overview)
	resp.HoursPerWorker = mapWorkerHours(overview.PerWorker)
	resp.TopWorkers = mapWorkerHours(overview.TopWorkers)
	return resp, nil
}

// MyOverview implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) MyOverview(ctx context.Context, workerID string, q clocksession.OverviewQuery) (clocksession.OverviewResponse, error) {
	if err := q.Validate(); err != nil {
		return clocksession.OverviewResponse{}, err
	}

	overview, err := s.aggregate(ctx, q, []string{workerID})
	if err != nil {
		return clocksession.OverviewResponse{}, err
	}

	return mapOverview(overview), nil
}

// Timesheet implements clocksession.ClockSessionService.
func (s *ClockSessionServiceImpl) Timesheet(ctx context.Context, q clocksession.TimesheetQuery) (clocksession.TimesheetResponse, error) {
	if err := q.Validate(); err != nil {
		return clocksession.TimesheetResponse{}, err
	}

	st, err := s.sites.GetByID(ctx, q.SiteID)
	if err != nil {
		return clocksession.TimesheetResponse{}, err
	}

	filter := clocksession.AggregateFilter{SiteIDs: []string{q.SiteID}}
	filter.OpenedFrom, filter.OpenedTo = s.dateRange(&q.StartDate, &q.EndDate)
	if q.WorkerID != nil && *q.WorkerID != "" {
		filter.WorkerIDs = []string{*q.WorkerID}
	}

	sessions, err := s.sessions.ListClosed(ctx, filter)
	if err != nil {
		return clocksession.TimesheetResponse{}, fmt.Errorf("failed to list closed sessions: %w", err)
	}

	sheet := clocksession.BuildTimesheet(sessions, s.location)

	days := make([]clocksession.TimesheetDayResponse, 0, len(sheet.Days))
	for _, d := range sheet.Days {
		day := clocksession.TimesheetDayResponse{Date: d.Date}
		for _, c := range d.Workers {
			day.Workers = append(day.Workers, clocksession.TimesheetCellResponse{
				WorkerID:   c.WorkerID,
				WorkerName: c.WorkerName,
				Hours:      c.Hours,
				Notes:      c.Notes,
			})
		}
		days = append(days, day)
	}

	return clocksession.TimesheetResponse{
		Site:         siteToResponse(st),
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		Days:         days,
		WorkerTotals: mapWorkerHours(sheet.WorkerTotals),
		TotalHours:   sheet.TotalHours,
	}, nil
}

func (s *ClockSessionServiceImpl) aggregate(ctx context.Context, q clocksession.OverviewQuery, workerIDs []string) (clocksession.Overview, error) {
	filter := clocksession.AggregateFilter{
		SiteIDs:   q.SiteIDs,
		WorkerIDs: workerIDs,
	}
	filter.OpenedFrom, filter.OpenedTo = s.dateRange(q.StartDate, q.EndDate)

	sessions, err := s.sessions.ListClosed(ctx, filter)
	if err != nil {
		return clocksession.Overview{}, fmt.Errorf("failed to list closed sessions: %w", err)
	}
	return clocksession.Aggregate(sessions), nil
}

// getVisible loads a session the requester may see: admins see all, workers only their own.
func (s *ClockSessionServiceImpl) getVisible(ctx context.Context, id string, requester auth.Identity) (clocksession.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return clocksession.Session{}, err
	}
	if !requester.IsAdmin() && session.WorkerID != requester.WorkerID {
		return clocksession.Session{}, clocksession.ErrNotAuthorized
	}
	return session, nil
}

// advisory measures sample against the session's site. It returns nil when the
// site is gone or has no coordinate; it never fails the caller.
func (s *ClockSessionServiceImpl) advisory(ctx context.Context, siteID string, sample clocksession.LocationSample) *geofence.Verdict {
	st, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		if !errors.Is(err, site.ErrSiteNotFound) {
			s.logger.WarnContext(ctx, "site lookup failed during advisory check",
				slog.String("site_id", siteID),
				slog.Any("error", err),
			)
		}
		return nil
	}

	distance, err := s.policy.Measure(sample.Coordinate, st)
	if err != nil {
		return nil
	}

	verdict := s.policy.EvaluateAdvisory(distance, st)
	return &verdict
}

func (s *ClockSessionServiceImpl) reject(ctx context.Context, req clocksession.ClockInRequest, st site.Site, distance *float64, reason string, at time.Time) *audit.Event {
	s.metrics.IncRejection(reason)

	attrs := []any{
		slog.String("worker_id", req.WorkerID),
		slog.String("site_id", st.ID),
		slog.String("reason", reason),
	}
	if distance != nil {
		attrs = append(attrs, slog.Float64("distance_m", *distance))
	}
	s.logger.WarnContext(ctx, "clock-in rejected", attrs...)

	return &audit.Event{
		Type:       audit.EventAdmissionRejected,
		WorkerID:   req.WorkerID,
		WorkerName: req.WorkerName,
		SiteID:     st.ID,
		DistanceM:  distance,
		Reason:     &reason,
		OccurredAt: at,
	}
}

func (s *ClockSessionServiceImpl) emit(ctx context.Context, e audit.Event) {
	if s.audit == nil {
		return
	}

	// Committed operations are audited even when the client has gone away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emitTimeout)
	defer cancel()

	if err := s.audit.Emit(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			slog.String("event_type", string(e.Type)),
			slog.Any("error", err),
		)
	}
}

// dateRange turns inclusive YYYY-MM-DD bounds into a half-open instant range in
// the service timezone. Inputs are validated by the query DTOs.
func (s *ClockSessionServiceImpl) dateRange(start, end *string) (*time.Time, *time.Time) {
	var from, to *time.Time

	if start != nil && *start != "" {
		if t, err := time.ParseInLocation(time.DateOnly, *start, s.location); err == nil {
			from = &t
		}
	}
	if end != nil && *end != "" {
		if t, err := time.ParseInLocation(time.DateOnly, *end, s.location); err == nil {
			next := t.AddDate(0, 0, 1)
			to = &next
		}
	}

	return from, to
}
