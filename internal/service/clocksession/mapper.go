package clocksession

import (
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	siteService "github.com/theglobal/uren-backend-go/internal/service/site"
)

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func mapLocation(l clocksession.LocationSample) clocksession.LocationResponse {
	return clocksession.LocationResponse{
		Latitude:   l.Coordinate.Latitude,
		Longitude:  l.Coordinate.Longitude,
		AccuracyM:  l.AccuracyM,
		CapturedAt: l.CapturedAt.Format(time.RFC3339),
	}
}

func MapSessionToResponse(s clocksession.Session) clocksession.SessionResponse {
	resp := clocksession.SessionResponse{
		ID:                 s.ID,
		WorkerID:           s.WorkerID,
		WorkerName:         s.WorkerName,
		SiteID:             s.SiteID,
		SiteName:           s.SiteName,
		Company:            s.Company,
		SiteLocation:       s.SiteLocationLabel,
		Status:             string(s.Status),
		OpenedAt:           s.OpenedAt.Format(time.RFC3339),
		OpenLocation:       mapLocation(s.OpenLocation),
		ClosedAt:           timePtrToString(s.ClosedAt),
		AdmissionDistanceM: s.AdmissionDistanceM,
		AdmissionMatch:     s.AdmissionMatch,
		AdmissionWarning:   s.AdmissionWarning,
		ClosingDistanceM:   s.ClosingDistanceM,
		ClosingMatch:       s.ClosingMatch,
		ClosingWarning:     s.ClosingWarning,
		DurationHours:      s.DurationHours,
		Note:               s.Note,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
	if s.CloseLocation != nil {
		loc := mapLocation(*s.CloseLocation)
		resp.CloseLocation = &loc
	}
	return resp
}

func MapPositionLogToResponse(p clocksession.PositionLog) clocksession.PositionLogResponse {
	return clocksession.PositionLogResponse{
		ID:              p.ID,
		SessionID:       p.SessionID,
		WorkerID:        p.WorkerID,
		CapturedAt:      p.CapturedAt.Format(time.RFC3339),
		Latitude:        p.Location.Latitude,
		Longitude:       p.Location.Longitude,
		AccuracyM:       p.AccuracyM,
		DistanceToSiteM: p.DistanceToSiteM,
		WithinRadius:    p.WithinRadius,
	}
}

func mapSessions(sessions []clocksession.Session) []clocksession.SessionResponse {
	responses := make([]clocksession.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, MapSessionToResponse(s))
	}
	return responses
}

func mapOverview(o clocksession.Overview) clocksession.OverviewResponse {
	perSite := make([]clocksession.SiteHoursResponse, 0, len(o.PerSite))
	for _, sh := range o.PerSite {
		perSite = append(perSite, clocksession.SiteHoursResponse{
			SiteID:   sh.SiteID,
			SiteName: sh.SiteName,
			Hours:    sh.Hours,
		})
	}

	return clocksession.OverviewResponse{
		TotalHours:   o.TotalHours,
		HoursPerSite: perSite,
		Entries:      mapSessions(o.Entries),
		EntryCount:   o.EntryCount,
	}
}

func mapWorkerHours(ws []clocksession.WorkerHours) []clocksession.WorkerHoursResponse {
	responses := make([]clocksession.WorkerHoursResponse, 0, len(ws))
	for _, w := range ws {
		responses = append(responses, clocksession.WorkerHoursResponse{
			WorkerID:   w.WorkerID,
			WorkerName: w.WorkerName,
			Hours:      w.Hours,
		})
	}
	return responses
}

func siteToResponse(s site.Site) site.SiteResponse {
	return siteService.MapSiteToResponse(s)
}
