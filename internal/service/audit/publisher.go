package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/pkg/metrics"
)

// NamedSink labels a sink for logs and metrics.
type NamedSink struct {
	Name string
	Sink audit.Sink
}

// Publisher fans an event out to every sink. A failing sink is logged and
// counted; it never fails the caller and never stops the other sinks.
type Publisher struct {
	sinks   []NamedSink
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPublisher(logger *slog.Logger, m *metrics.Metrics, sinks ...NamedSink) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sinks:   sinks,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Emit implements audit.Sink. It always returns nil.
func (p *Publisher) Emit(ctx context.Context, e audit.Event) error {
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to generate audit event id", slog.Any("error", err))
			return nil
		}
		e.ID = id.String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = p.now().UTC()
	}

	for _, s := range p.sinks {
		if err := s.Sink.Emit(ctx, e); err != nil {
			p.metrics.IncAuditSinkFailure(s.Name)
			p.logger.ErrorContext(ctx, "audit sink failed",
				slog.String("sink", s.Name),
				slog.String("event_type", string(e.Type)),
				slog.String("event_id", e.ID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}
