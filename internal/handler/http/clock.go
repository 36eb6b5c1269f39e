package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/handler/http/response"
)

type ClockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	LogPosition(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clocksession.ClockSessionService
}

func NewClockHandler(clockService clocksession.ClockSessionService) ClockHandler {
	return &clockHandlerImpl{
		clockService: clockService,
	}
}

// ClockIn implements ClockHandler.
func (h *clockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	var req clocksession.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.WorkerID = identity.WorkerID
	req.WorkerName = identity.Name

	result, err := h.clockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements ClockHandler.
func (h *clockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	var req clocksession.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	req.WorkerID = identity.WorkerID

	result, err := h.clockService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// LogPosition implements ClockHandler.
func (h *clockHandlerImpl) LogPosition(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	var req clocksession.LogPositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SessionID = chi.URLParam(r, "id")
	req.WorkerID = identity.WorkerID

	result, err := h.clockService.LogPosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position logged", result)
}

// Status implements ClockHandler.
func (h *clockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.GetStatus(r.Context(), identity.WorkerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListSessions implements ClockHandler.
func (h *clockHandlerImpl) ListSessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	q := clocksession.ListSessionsQuery{
		WorkerID:  queryPtr(r, "worker_id"),
		Status:    queryPtr(r, "status"),
		Date:      queryPtr(r, "date"),
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
	}

	result, err := h.clockService.ListSessions(r.Context(), identity, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}

// GetSession implements ClockHandler.
func (h *clockHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.GetSession(r.Context(), chi.URLParam(r, "id"), identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPositions implements ClockHandler.
func (h *clockHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.ListPositions(r.Context(), chi.URLParam(r, "id"), identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}

// DeleteSession implements ClockHandler.
func (h *clockHandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.clockService.DeleteSession(r.Context(), chi.URLParam(r, "id"), identity); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock session deleted", nil)
}
