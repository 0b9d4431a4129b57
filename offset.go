package suntime

import (
	"fmt"
	"strconv"
	"strings"
)

// DegreesOffset is an angle, in degrees, below the horizon that is added to
// the reference zenith. The named values are the standard twilight limits.
type DegreesOffset float64

const (
	// Horizon is plain sunrise/sunset.
	Horizon DegreesOffset = 0

	// Civil corresponds to the Sun's center 6 degrees below the horizon.
	Civil DegreesOffset = 6

	// Nautical corresponds to the Sun's center 12 degrees below the horizon.
	Nautical DegreesOffset = 12

	// Astronomical corresponds to the Sun's center 18 degrees below the horizon.
	Astronomical DegreesOffset = 18
)

var offsetNames = map[DegreesOffset]string{
	Horizon:      "horizon",
	Civil:        "civil",
	Nautical:     "nautical",
	Astronomical: "astronomical",
}

func (o DegreesOffset) String() string {
	if name, ok := offsetNames[o]; ok {
		return name
	}
	return strconv.FormatFloat(float64(o), 'g', -1, 64) + "°"
}

// ParseDegreesOffset accepts one of the preset names (case insensitive) or
// a plain number of degrees.
func ParseDegreesOffset(s string) (DegreesOffset, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for o, n := range offsetNames {
		if n == name {
			return o, nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(name, "°"), 64)
	if err != nil {
		return 0, fmt.Errorf("unknown degrees offset %q (use horizon, civil, nautical, astronomical or a number)", s)
	}
	return DegreesOffset(v), nil
}

// Event selects which crossing of the zenith is computed.
type Event int

const (
	Sunrise Event = iota
	Sunset
)

func (e Event) String() string {
	switch e {
	case Sunrise:
		return "sunrise"
	case Sunset:
		return "sunset"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}
