// Package zone resolves the IANA time zone that contains a position, so
// that sunrise and sunset can be reported in the observer's local time.
//
// The boundary data is embedded by github.com/ringsaturn/tzf and adds
// several megabytes to any binary that imports this package.
package zone

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

var (
	ErrInvalidCoordinates = errors.New("zone: invalid coordinates")
	ErrNotFound           = errors.New("zone: no time zone found for coordinates")
)

// Finder looks up time zones by position. It is safe for concurrent use.
type Finder struct {
	finder tzf.F
}

// New builds a Finder from the default embedded dataset.
func New() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("zone: loading boundary data: %w", err)
	}
	return &Finder{finder: f}, nil
}

var (
	defaultOnce   sync.Once
	defaultFinder *Finder
	defaultErr    error
)

// Default returns a process-wide Finder, building it on first use.
func Default() (*Finder, error) {
	defaultOnce.Do(func() {
		defaultFinder, defaultErr = New()
	})
	return defaultFinder, defaultErr
}

// NameAt returns the IANA name of the zone containing lat, lon, for
// example "Europe/Berlin".
func (f *Finder) NameAt(lat, lon float64) (string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("%w: lat=%v lon=%v", ErrNotFound, lat, lon)
	}
	return name, nil
}

// LocationAt is like NameAt but loads the zone.
func (f *Finder) LocationAt(lat, lon float64) (*time.Location, error) {
	name, err := f.NameAt(lat, lon)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("zone: loading %q: %w", name, err)
	}
	return loc, nil
}
