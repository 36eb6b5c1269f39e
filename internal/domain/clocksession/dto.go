package clocksession

import (
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
	"github.com/theglobal/uren-backend-go/internal/pkg/validator"
)

const maxNoteLength = 1000

// ========================================
// CLOCK DTOs
// ========================================

// LocationInput is a device position in a request body.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AccuracyM *float64 `json:"accuracy,omitempty"`
}

func (l LocationInput) Coordinate() geo.Coordinate {
	var c geo.Coordinate
	if l.Latitude != nil {
		c.Latitude = *l.Latitude
	}
	if l.Longitude != nil {
		c.Longitude = *l.Longitude
	}
	return c
}

func (l LocationInput) validate(field string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if l.Latitude == nil || l.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " latitude and longitude are required",
		})
		return errs
	}

	if err := l.Coordinate().Validate(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: err.Error(),
		})
	}

	if l.AccuracyM != nil && *l.AccuracyM < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".accuracy",
			Message: "accuracy must not be negative",
		})
	}

	return errs
}

type ClockInRequest struct {
	WorkerID   string        `json:"-"`
	WorkerName string        `json:"-"`
	SiteID     string        `json:"site_id"`
	Location   LocationInput `json:"location"`
	Note       *string       `json:"note,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if validator.IsEmpty(r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id is required",
		})
	}

	errs = append(errs, r.Location.validate("location")...)
	errs = append(errs, validateNote(r.Note)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	SessionID string        `json:"-"`
	WorkerID  string        `json:"-"`
	Location  LocationInput `json:"location"`
	Note      *string       `json:"note,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	errs = append(errs, r.Location.validate("location")...)
	errs = append(errs, validateNote(r.Note)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LogPositionRequest carries one periodic ping. The body is the bare location.
type LogPositionRequest struct {
	SessionID string `json:"-"`
	WorkerID  string `json:"-"`
	LocationInput
}

func (r *LogPositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	errs = append(errs, r.LocationInput.validate("location")...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateNote(note *string) validator.ValidationErrors {
	if note != nil && len(*note) > maxNoteLength {
		return validator.ValidationErrors{{
			Field:   "note",
			Message: "note must not exceed 1000 characters",
		}}
	}
	return nil
}

// ========================================
// QUERY DTOs
// ========================================

// ListSessionsQuery dates are YYYY-MM-DD in the app timezone. Date wins over the range.
type ListSessionsQuery struct {
	WorkerID  *string `json:"worker_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (q *ListSessionsQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Status != nil && !Status(*q.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: open, closed",
		})
	}

	errs = append(errs, validateDate("date", q.Date)...)
	errs = append(errs, validateDateRange(q.StartDate, q.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OverviewQuery struct {
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	SiteIDs   []string `json:"site_ids,omitempty"`
	WorkerIDs []string `json:"worker_ids,omitempty"`
}

func (q *OverviewQuery) Validate() error {
	errs := validateDateRange(q.StartDate, q.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TimesheetQuery selects the mandagenstaat of one site. Both dates are inclusive.
type TimesheetQuery struct {
	SiteID    string  `json:"site_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	WorkerID  *string `json:"worker_id,omitempty"`
}

func (q *TimesheetQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id is required",
		})
	}
	if validator.IsEmpty(q.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}
	if validator.IsEmpty(q.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}
	if len(errs) == 0 {
		errs = append(errs, validateDateRange(&q.StartDate, &q.EndDate)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDate(field string, d *string) validator.ValidationErrors {
	if d == nil || *d == "" {
		return nil
	}
	if _, valid := validator.IsValidDate(*d); !valid {
		return validator.ValidationErrors{{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

func validateDateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	errs = append(errs, validateDate("start_date", start)...)
	errs = append(errs, validateDate("end_date", end)...)

	if len(errs) == 0 && start != nil && end != nil && *start != "" && *end != "" {
		s, _ := validator.IsValidDate(*start)
		e, _ := validator.IsValidDate(*end)
		if e.Before(s) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	return errs
}

// ========================================
// RESPONSE DTOs
// ========================================

type LocationResponse struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	AccuracyM  *float64 `json:"accuracy,omitempty"`
	CapturedAt string   `json:"captured_at"`
}

type SessionResponse struct {
	ID                 string            `json:"id"`
	WorkerID           string            `json:"worker_id"`
	WorkerName         string            `json:"worker_name"`
	SiteID             string            `json:"site_id"`
	SiteName           string            `json:"site_name"`
	Company            string            `json:"company"`
	SiteLocation       string            `json:"site_location"`
	Status             string            `json:"status"`
	OpenedAt           string            `json:"opened_at"`
	OpenLocation       LocationResponse  `json:"open_location"`
	ClosedAt           *string           `json:"closed_at,omitempty"`
	CloseLocation      *LocationResponse `json:"close_location,omitempty"`
	AdmissionDistanceM float64           `json:"admission_distance_m"`
	AdmissionMatch     bool              `json:"admission_match"`
	AdmissionWarning   *string           `json:"admission_warning,omitempty"`
	ClosingDistanceM   *float64          `json:"closing_distance_m,omitempty"`
	ClosingMatch       *bool             `json:"closing_match,omitempty"`
	ClosingWarning     *string           `json:"closing_warning,omitempty"`
	DurationHours      *float64          `json:"duration_hours,omitempty"`
	Note               *string           `json:"note,omitempty"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

type StatusResponse struct {
	ClockedIn bool             `json:"clocked_in"`
	Session   *SessionResponse `json:"session"`
}

type PositionLogResponse struct {
	ID              string   `json:"id"`
	SessionID       string   `json:"session_id"`
	WorkerID        string   `json:"worker_id"`
	CapturedAt      string   `json:"captured_at"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	AccuracyM       *float64 `json:"accuracy,omitempty"`
	DistanceToSiteM *float64 `json:"distance_to_site_m"`
	WithinRadius    *bool    `json:"within_radius"`
}

type SiteHoursResponse struct {
	SiteID   string  `json:"site_id"`
	SiteName string  `json:"site_name"`
	Hours    float64 `json:"hours"`
}

type WorkerHoursResponse struct {
	WorkerID   string  `json:"worker_id"`
	WorkerName string  `json:"worker_name"`
	Hours      float64 `json:"hours"`
}

type OverviewResponse struct {
	TotalHours     float64               `json:"total_hours"`
	HoursPerSite   []SiteHoursResponse   `json:"hours_per_site"`
	HoursPerWorker []WorkerHoursResponse `json:"hours_per_worker,omitempty"`
	TopWorkers     []WorkerHoursResponse `json:"hours_per_worker_top10,omitempty"`
	Entries        []SessionResponse     `json:"entries"`
	EntryCount     int                   `json:"entry_count"`
}

type TimesheetCellResponse struct {
	WorkerID   string   `json:"worker_id"`
	WorkerName string   `json:"worker_name"`
	Hours      float64  `json:"hours"`
	Notes      []string `json:"notes"`
}

type TimesheetDayResponse struct {
	Date    string                  `json:"date"`
	Workers []TimesheetCellResponse `json:"workers"`
}

type TimesheetResponse struct {
	Site         site.SiteResponse      `json:"site"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	Days         []TimesheetDayResponse `json:"days"`
	WorkerTotals []WorkerHoursResponse  `json:"worker_totals"`
	TotalHours   float64                `json:"total_hours"`
}
