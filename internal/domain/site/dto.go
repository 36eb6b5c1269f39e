package site

import (
	"math"

	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
	"github.com/theglobal/uren-backend-go/internal/pkg/validator"
)

type CreateSiteRequest struct {
	Name          string   `json:"name"`
	Company       string   `json:"company"`
	LocationLabel string   `json:"location"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MatchRadiusM  *float64 `json:"location_radius,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

func (r *CreateSiteRequest) Validate() error {
	errs := validateSiteFields(r.Name, r.Company, r.Latitude, r.Longitude, r.MatchRadiusM)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSiteRequest replaces every editable field of a site.
type UpdateSiteRequest struct {
	ID            string   `json:"-"`
	Name          string   `json:"name"`
	Company       string   `json:"company"`
	LocationLabel string   `json:"location"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MatchRadiusM  *float64 `json:"location_radius,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

func (r *UpdateSiteRequest) Validate() error {
	errs := validateSiteFields(r.Name, r.Company, r.Latitude, r.Longitude, r.MatchRadiusM)
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateSiteFields(name, company string, lat, lon, radius *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(name) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 200 characters",
		})
	}
	if validator.IsEmpty(company) {
		errs = append(errs, validator.ValidationError{
			Field:   "company",
			Message: "company is required",
		})
	}

	if (lat == nil) != (lon == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	} else if lat != nil {
		if err := (geo.Coordinate{Latitude: *lat, Longitude: *lon}).Validate(); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: err.Error(),
			})
		}
	}

	if radius != nil && (math.IsNaN(*radius) || *radius <= 0) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_radius",
			Message: "location_radius must be greater than 0",
		})
	}

	return errs
}

type SiteResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Company       string   `json:"company"`
	LocationLabel string   `json:"location"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MatchRadiusM  float64  `json:"location_radius"`
	Description   *string  `json:"description,omitempty"`
	Active        bool     `json:"active"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}
