package geofence

import (
	"fmt"
	"math"

	"github.com/theglobal/uren-backend-go/internal/domain/geofence"
	"github.com/theglobal/uren-backend-go/internal/domain/site"
	"github.com/theglobal/uren-backend-go/internal/pkg/geo"
)

// Policy turns distances into admission and advisory verdicts. It is pure and safe for concurrent use.
type Policy struct {
	cfg geofence.Config
}

func NewPolicy(cfg geofence.Config) *Policy {
	return &Policy{cfg: cfg}
}

func (p *Policy) Config() geofence.Config {
	return p.cfg
}

// Measure returns the distance in meters between from and the site's registered coordinate.
func (p *Policy) Measure(from geo.Coordinate, s site.Site) (float64, error) {
	if !s.HasCoordinate() {
		return 0, site.ErrSiteMissingLocation
	}
	return geo.Distance(from, *s.Coordinate)
}

// EvaluateAdmission is the clock-in check: beyond the strict radius the worker is refused.
func (p *Policy) EvaluateAdmission(distanceM float64, s site.Site) (geofence.Verdict, error) {
	if distanceM > p.cfg.StrictAdmissionRadiusM {
		return geofence.Verdict{}, &geofence.OutOfRangeError{
			DistanceM: distanceM,
			LimitM:    p.cfg.StrictAdmissionRadiusM,
		}
	}
	return p.verdict(distanceM, s), nil
}

// EvaluateAdvisory annotates clock-outs and position pings. It never rejects.
func (p *Policy) EvaluateAdvisory(distanceM float64, s site.Site) geofence.Verdict {
	return p.verdict(distanceM, s)
}

func (p *Policy) verdict(distanceM float64, s site.Site) geofence.Verdict {
	radius := s.MatchRadiusM
	if radius <= 0 {
		radius = site.DefaultMatchRadiusM
	}

	v := geofence.Verdict{
		DistanceM:            distanceM,
		WithinReportRadius:   distanceM <= p.cfg.ReportMatchRadiusM,
		WithinAdvisoryRadius: distanceM <= radius,
	}
	if !v.WithinAdvisoryRadius {
		warning := fmt.Sprintf("distance deviation %dm (allowed: %sm)", int64(math.Round(distanceM)), geofence.FormatMeters(radius))
		v.Warning = &warning
	}
	return v
}
