package http

import (
	"net/http"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := audit.ListEventsQuery{
		WorkerID:  queryPtr(r, "worker_id"),
		EventType: queryPtr(r, "event_type"),
		Limit:     r.URL.Query().Get("limit"),
	}

	result, err := h.auditService.ListEvents(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}
