package http

import (
	"net/http"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	MyOverview(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	Timesheet(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	clockService clocksession.ClockSessionService
}

func NewReportHandler(clockService clocksession.ClockSessionService) ReportHandler {
	return &reportHandlerImpl{
		clockService: clockService,
	}
}

// MyOverview implements ReportHandler.
func (h *reportHandlerImpl) MyOverview(w http.ResponseWriter, r *http.Request) {
	identity, ok := requester(w, r)
	if !ok {
		return
	}

	q := clocksession.OverviewQuery{
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
		SiteIDs:   queryList(r, "site_id"),
	}

	result, err := h.clockService.MyOverview(r.Context(), identity.WorkerID, q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Overview implements ReportHandler.
func (h *reportHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	q := clocksession.OverviewQuery{
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
		SiteIDs:   queryList(r, "site_id"),
		WorkerIDs: queryList(r, "worker_id"),
	}

	result, err := h.clockService.Overview(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Timesheet implements ReportHandler.
func (h *reportHandlerImpl) Timesheet(w http.ResponseWriter, r *http.Request) {
	q := clocksession.TimesheetQuery{
		SiteID:    r.URL.Query().Get("site_id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		WorkerID:  queryPtr(r, "worker_id"),
	}

	result, err := h.clockService.Timesheet(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
