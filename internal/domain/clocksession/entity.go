package clocksession

import (
	"math"
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

// Worker is the person a session is booked on.
type Worker struct {
	ID   string
	Name string
}

// LocationSample is a device position as reported by the client.
type LocationSample struct {
	Coordinate geo.Coordinate
	AccuracyM  *float64
	CapturedAt time.Time
}

// Session is one worker's interval on one site. Site fields are copied at open
// so later site edits never rewrite history.
type Session struct {
	ID                string
	WorkerID          string
	WorkerName        string
	SiteID            string
	SiteName          string
	Company           string
	SiteLocationLabel string

	OpenedAt     time.Time
	OpenLocation LocationSample

	ClosedAt      *time.Time
	CloseLocation *LocationSample

	Status Status

	AdmissionDistanceM float64
	AdmissionMatch     bool
	AdmissionWarning   *string

	ClosingDistanceM *float64
	ClosingMatch     *bool
	ClosingWarning   *string

	DurationHours *float64
	Note          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionLog is an append-only GPS ping taken while a session is open.
type PositionLog struct {
	ID              string
	SessionID       string
	WorkerID        string
	CapturedAt      time.Time
	Location        geo.Coordinate
	AccuracyM       *float64
	DistanceToSiteM *float64
	WithinRadius    *bool
}

// NewOpenSession builds the session produced by a successful admission check.
func NewOpenSession(id string, w Worker, s site.Site, sample LocationSample, v geofence.Verdict, note *string, at time.Time) Session {
	return Session{
		ID:                 id,
		WorkerID:           w.ID,
		WorkerName:         w.Name,
		SiteID:             s.ID,
		SiteName:           s.Name,
		Company:            s.Company,
		SiteLocationLabel:  s.LocationLabel,
		OpenedAt:           at,
		OpenLocation:       sample,
		Status:             StatusOpen,
		AdmissionDistanceM: v.DistanceM,
		AdmissionMatch:     v.WithinReportRadius,
		AdmissionWarning:   v.Warning,
		Note:               nonEmpty(note),
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen
}

func (s *Session) EnsureActive() error {
	if !s.IsOpen() {
		return ErrSessionNotActive
	}
	return nil
}

// Close moves an open session to closed. A nil verdict leaves the closing
// distance fields empty. The opening note is kept unless a new one is given.
func (s *Session) Close(at time.Time, sample LocationSample, v *geofence.Verdict, note *string) error {
	if !s.IsOpen() {
		return ErrAlreadyClosed
	}

	closedAt := at
	loc := sample
	duration := DurationHours(s.OpenedAt, closedAt)

	s.ClosedAt = &closedAt
	s.CloseLocation = &loc
	if v != nil {
		distance := v.DistanceM
		match := v.WithinReportRadius
		s.ClosingDistanceM = &distance
		s.ClosingMatch = &match
		s.ClosingWarning = v.Warning
	}
	s.DurationHours = &duration
	s.Status = StatusClosed
	if n := nonEmpty(note); n != nil {
		s.Note = n
	}
	s.UpdatedAt = at

	return nil
}

// DurationHours is the elapsed time in hours rounded to two decimals.
func DurationHours(from, to time.Time) float64 {
	return round2(to.Sub(from).Seconds() / 3600)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
