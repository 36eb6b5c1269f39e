package site

import (
	"time"

	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

// DefaultMatchRadiusM is the advisory radius applied when a site does not set one.
const DefaultMatchRadiusM = 100.0

type Site struct {
	ID            string
	Name          string
	Company       string
	LocationLabel string
	Coordinate    *geo.Coordinate
	MatchRadiusM  float64
	Description   *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCoordinate reports whether the site can take part in geofencing.
func (s Site) HasCoordinate() bool {
	return s.Coordinate != nil
}
