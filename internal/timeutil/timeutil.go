package timeutil

import (
	"math"
	"time"

	"cloudeng.io/datetime"
)

// ApproxDayOfYear returns the 1-based day of year using the integer
// approximation from the Almanac for Computers:
//
//	N1 = floor(275 * month / 9)
//	N2 = floor((month + 9) / 12)
//	N3 = 1 + floor((year - 4 * floor(year / 4) + 2) / 3)
//	N  = N1 - (N2 * N3) + day - 30
//
// N3 is 1 in leap years and 2 otherwise, which is how February is accounted
// for without an explicit leap year test.
func ApproxDayOfYear(year int, month time.Month, day int) float64 {
	y, m, d := float64(year), float64(month), float64(day)
	n1 := math.Floor(275 * m / 9)
	n2 := math.Floor((m + 9) / 12)
	n3 := 1 + math.Floor((y-4*math.Floor(y/4)+2)/3)
	return n1 - (n2 * n3) + d - 30
}

// NextDay returns the calendar day following (year, month, day), rolling
// over into the next month and year as needed.
func NextDay(year int, month time.Month, day int) (int, time.Month, int) {
	day++
	if day > int(datetime.DaysInMonth(year, datetime.Month(month))) {
		day = 1
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return year, month, day
}

// -----------------------------
// Range normalization
// -----------------------------

// ForceRange folds v into [0, period) with at most one addition or
// subtraction of period. Callers must ensure v is already within one period
// of the target range.
func ForceRange(v, period float64) float64 {
	switch {
	case v < 0:
		return v + period
	case v >= period:
		return v - period
	}
	return v
}

func Normalize360(d float64) float64 {
	return ForceRange(d, 360)
}

func Normalize24(h float64) float64 {
	return ForceRange(h, 24)
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

// toRad is applied as a multiplier, and its reciprocal for the inverse;
// reference values were produced that way.
const toRad = math.Pi / 180.0

func Deg2Rad(d float64) float64 {
	return toRad * d
}

func Rad2Deg(r float64) float64 {
	return (1 / toRad) * r
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// AtanD returns atan(x) in degrees.
func AtanD(x float64) float64 {
	return Rad2Deg(math.Atan(x))
}

// AcosD returns acos(x) in degrees.
func AcosD(x float64) float64 {
	return Rad2Deg(math.Acos(x))
}
