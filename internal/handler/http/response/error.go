package response

import (
	"errors"
	"net/http"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
	"github.com/theglobal/uren-backend-go/internal/pkg/lock"
	"github.com/theglobal/uren-backend-go/internal/pkg/validator"
)

// OutOfRangeDetails is attached to a refused clock-in.
type OutOfRangeDetails struct {
	DistanceM    float64 `json:"distance_m"`
	MaxDistanceM float64 `json:"max_distance_m"`
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outOfRange *geofence.OutOfRangeError
	if errors.As(err, &outOfRange) {
		ForbiddenWithDetails(w, "OUT_OF_RANGE", outOfRange.Error(), OutOfRangeDetails{
			DistanceM:    outOfRange.DistanceM,
			MaxDistanceM: outOfRange.LimitM,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privileges required")

	// Location errors
	case errors.Is(err, geo.ErrInvalidCoordinate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, site.ErrSiteMissingLocation):
		BadRequest(w, "Site has no GPS location configured", nil)

	// Site domain errors
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Clock session domain errors
	case errors.Is(err, clocksession.ErrSessionNotFound):
		NotFound(w, "Clock session not found")
	case errors.Is(err, clocksession.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in, clock out first")
	case errors.Is(err, clocksession.ErrAlreadyClosed):
		Conflict(w, "Already clocked out")
	case errors.Is(err, clocksession.ErrSessionNotActive):
		Conflict(w, "Clock session is not active")
	case errors.Is(err, clocksession.ErrNotAuthorized):
		Forbidden(w, "Not authorized for this clock session")

	case errors.Is(err, lock.ErrLockTimeout):
		ServiceUnavailable(w, "Another clock operation for this worker is in progress, retry shortly")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
