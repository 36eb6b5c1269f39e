package geofence

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrOutOfRange = errors.New("location outside admission radius")

// OutOfRangeError rejects a clock-in and carries the measured distance for the caller.
type OutOfRangeError struct {
	DistanceM float64
	LimitM    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("too far from site: %sm, max %sm allowed", FormatMeters(e.DistanceM), FormatMeters(e.LimitM))
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// FormatMeters renders a distance with at most one decimal.
func FormatMeters(m float64) string {
	return strconv.FormatFloat(math.Round(m*10)/10, 'f', -1, 64)
}
