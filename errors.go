package suntime

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoCrossing is returned when the Sun does not cross the requested zenith
// at the given location on the given date (polar day or polar night). The
// two cases are not distinguished.
var ErrNoCrossing = errors.New("the sun never rises or sets at this location on the specified date")

// CalculationError describes a failed sunrise/sunset computation. It
// matches ErrNoCrossing with errors.Is.
type CalculationError struct {
	Event  Event
	Date   time.Time // calendar date of the request, at midnight UTC
	Coords Coordinates
	Zenith float64 // effective zenith in degrees
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s at lat=%.4f lon=%.4f on %s (zenith %.3f°): %v",
		e.Event, e.Coords.Lat, e.Coords.Lon, e.Date.Format("2006-01-02"), e.Zenith, ErrNoCrossing)
}

func (e *CalculationError) Unwrap() error {
	return ErrNoCrossing
}
