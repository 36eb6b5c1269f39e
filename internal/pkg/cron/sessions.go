package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/pkg/metrics"
)

const StaleSessionsJobName = "report_stale_open_sessions"

// SessionJobs watches the session ledger. It only reports; it never closes a session.
type SessionJobs struct {
	sessions   clocksession.Repository
	metrics    *metrics.Metrics
	logger     *slog.Logger
	staleAfter time.Duration
	now        func() time.Time
}

func NewSessionJobs(sessions clocksession.Repository, m *metrics.Metrics, logger *slog.Logger, staleAfter time.Duration) *SessionJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionJobs{
		sessions:   sessions,
		metrics:    m,
		logger:     logger,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(StaleSessionsJobName, interval, j.ReportStaleOpenSessions)
}

// ReportStaleOpenSessions flags workers that seem to have forgotten to clock out.
func (j *SessionJobs) ReportStaleOpenSessions(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)

	stale, err := j.sessions.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	j.metrics.SetStaleOpenSessions(len(stale))

	for _, s := range stale {
		j.logger.WarnContext(ctx, "Cron: open session exceeds stale threshold",
			slog.String("session_id", s.ID),
			slog.String("worker_id", s.WorkerID),
			slog.String("site_id", s.SiteID),
			slog.Time("opened_at", s.OpenedAt),
			slog.Duration("open_for", j.now().Sub(s.OpenedAt).Round(time.Minute)),
		)
	}

	if len(stale) > 0 {
		j.logger.InfoContext(ctx, "Cron: stale open sessions reported", slog.Int("count", len(stale)))
	}
	return nil
}
