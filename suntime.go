// Package suntime computes approximate sunrise and sunset times for a given
// location and date.
//
// It uses the closed-form solar position formula from the Almanac for
// Computers (1990) rather than a full ephemeris: results are UTC times with
// minute resolution that are typically within a few minutes of published
// tables. Twilight times are obtained by adding one of the DegreesOffset
// presets to the reference zenith.
//
// A Sun is an immutable value bound to one position and may be shared
// freely between goroutines.
package suntime

import (
	"time"

	"github.com/thurmanmarka/suntime/internal/sun"
)

// DefaultZenith is the reference zenith angle (in degrees) for sunrise and
// sunset: the geometric horizon adjusted for refraction and the solar disk.
const DefaultZenith = sun.StandardZenith

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat float64 // degrees, north positive
	Lon float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
}

// RiseSet holds rise and set times of the Sun on a given date.
type RiseSet struct {
	Rise time.Time
	Set  time.Time
}

// Sun computes sunrise and sunset for a fixed position.
type Sun struct {
	coords Coordinates
	zenith float64
}

// New returns a Sun for lat, lon (degrees) using DefaultZenith.
func New(lat, lon float64) Sun {
	return NewWithZenith(lat, lon, DefaultZenith)
}

// NewWithZenith returns a Sun for lat, lon (degrees) using the supplied
// reference zenith (degrees).
func NewWithZenith(lat, lon, zenith float64) Sun {
	return Sun{coords: Coordinates{Lat: lat, Lon: lon}, zenith: zenith}
}

// Coordinates returns the position the Sun was created for.
func (s Sun) Coordinates() Coordinates {
	return s.coords
}

// Zenith returns the reference zenith in degrees.
func (s Sun) Zenith() float64 {
	return s.zenith
}

// Compute returns the UTC time of the requested event on the calendar date
// of date, taken in date's own location. A zero date means today in
// time.Local. The result has minute resolution. When the sum of the reference
// zenith and offset is not crossed on that date a *CalculationError, which
// matches ErrNoCrossing, is returned.
func (s Sun) Compute(date time.Time, ev Event, offset DegreesOffset) (time.Time, error) {
	if date.IsZero() {
		date = time.Now()
	}
	year, month, day := date.Date()
	zenith := s.zenith + float64(offset)

	t, ok := sun.EventTime(s.coords.Lat, s.coords.Lon, year, month, day, zenith, ev == Sunrise)
	if !ok {
		return time.Time{}, &CalculationError{
			Event:  ev,
			Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			Coords: s.coords,
			Zenith: zenith,
		}
	}
	return t, nil
}

// ComputeLocal is like Compute but converts the result to zone. A nil zone
// means time.Local.
func (s Sun) ComputeLocal(date time.Time, ev Event, offset DegreesOffset, zone *time.Location) (time.Time, error) {
	t, err := s.Compute(date, ev, offset)
	if err != nil {
		return time.Time{}, err
	}
	if zone == nil {
		zone = time.Local
	}
	return t.In(zone), nil
}

// SunriseUTC returns the UTC sunrise (or dawn, for a non-zero offset).
func (s Sun) SunriseUTC(date time.Time, offset DegreesOffset) (time.Time, error) {
	return s.Compute(date, Sunrise, offset)
}

// SunsetUTC returns the UTC sunset (or dusk, for a non-zero offset).
func (s Sun) SunsetUTC(date time.Time, offset DegreesOffset) (time.Time, error) {
	return s.Compute(date, Sunset, offset)
}

// SunriseLocal returns sunrise converted to zone (time.Local if nil).
func (s Sun) SunriseLocal(date time.Time, offset DegreesOffset, zone *time.Location) (time.Time, error) {
	return s.ComputeLocal(date, Sunrise, offset, zone)
}

// SunsetLocal returns sunset converted to zone (time.Local if nil).
func (s Sun) SunsetLocal(date time.Time, offset DegreesOffset, zone *time.Location) (time.Time, error) {
	return s.ComputeLocal(date, Sunset, offset, zone)
}

// RiseSet returns both events, in UTC, for the calendar date of date. It
// fails if either event does not occur.
//
// Both times carry the requested calendar date (modulo rollover), so for
// positions far from Greenwich the UTC sunset may precede the UTC sunrise.
func (s Sun) RiseSet(date time.Time, offset DegreesOffset) (RiseSet, error) {
	rise, err := s.SunriseUTC(date, offset)
	if err != nil {
		return RiseSet{}, err
	}
	set, err := s.SunsetUTC(date, offset)
	if err != nil {
		return RiseSet{}, err
	}
	return RiseSet{Rise: rise, Set: set}, nil
}

// DaylightHours returns the time between sunrise and sunset in hours.
func (s Sun) DaylightHours(date time.Time) (float64, error) {
	rs, err := s.RiseSet(date, Horizon)
	if err != nil {
		return 0, err
	}
	return daylight(rs).Hours(), nil
}

// daylight measures clock time from rise to set, wrapping across 00:00 UTC.
func daylight(rs RiseSet) time.Duration {
	d := clockOf(rs.Set) - clockOf(rs.Rise)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// RiseSetLocal returns both events in date's time zone, each pinned to the
// local calendar date of date. This keeps an evening event west of
// Greenwich on the requested day rather than the day before.
func (s Sun) RiseSetLocal(date time.Time, offset DegreesOffset) (RiseSet, error) {
	if date.IsZero() {
		date = time.Now()
	}
	locTZ := date.Location()
	year, month, day := date.Date()

	rsUTC, err := s.RiseSet(date, offset)
	if err != nil {
		return RiseSet{}, err
	}
	return RiseSet{
		Rise: withLocalDate(rsUTC.Rise.In(locTZ), year, month, day),
		Set:  withLocalDate(rsUTC.Set.In(locTZ), year, month, day),
	}, nil
}

// RiseSetFor returns the rise and set times for the given location on the
// local calendar date of date, in date's time zone.
func RiseSetFor(loc Coordinates, date time.Time, offset DegreesOffset) (RiseSet, error) {
	return New(loc.Lat, loc.Lon).RiseSetLocal(date, offset)
}

// SlideIntoSunset is your glorious convenience helper:
// it returns sunrise and sunset at the given location and local date.
func SlideIntoSunset(loc Coordinates, date time.Time) (RiseSet, error) {
	return RiseSetFor(loc, date, Horizon)
}

// DaylightHours calculates the duration of daylight (time between sunrise and
// sunset) at the given location and date. Returns the duration in hours.
//
// If the sun does not rise or set on the given date (e.g., polar regions), it
// returns 0 and an error matching ErrNoCrossing.
func DaylightHours(loc Coordinates, date time.Time) (float64, error) {
	return New(loc.Lat, loc.Lon).DaylightHours(date)
}

// withLocalDate returns a copy of t but with its calendar date
// forced to (year, month, day), keeping the same clock time and location.
func withLocalDate(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
