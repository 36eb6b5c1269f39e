package audit

import "context"

type AuditService interface {
	ListEvents(ctx context.Context, q ListEventsQuery) ([]EventResponse, error)
}
