package audit

import (
	"context"
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
)

type auditServiceImpl struct {
	store audit.Store
}

func NewAuditService(store audit.Store) audit.AuditService {
	return &auditServiceImpl{store: store}
}

// ListEvents implements audit.AuditService.
func (s *auditServiceImpl) ListEvents(ctx context.Context, q audit.ListEventsQuery) ([]audit.EventResponse, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}

	events, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]audit.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, MapEventToResponse(e))
	}
	return responses, nil
}

func MapEventToResponse(e audit.Event) audit.EventResponse {
	return audit.EventResponse{
		ID:                   e.ID,
		Type:                 string(e.Type),
		WorkerID:             e.WorkerID,
		WorkerName:           e.WorkerName,
		SessionID:            optional(e.SessionID),
		SiteID:               optional(e.SiteID),
		DistanceM:            e.DistanceM,
		WithinReportRadius:   e.WithinReportRadius,
		WithinAdvisoryRadius: e.WithinAdvisoryRadius,
		Warning:              e.Warning,
		Reason:               e.Reason,
		OccurredAt:           e.OccurredAt.Format(time.RFC3339),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
