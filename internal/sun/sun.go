package sun

import (
	"math"
	"time"

	"github.com/thurmanmarka/suntime/internal/timeutil"
)

// StandardZenith is the zenith angle (in degrees) used for sunrise/sunset:
// the geometric horizon plus an allowance for refraction and the Sun's
// apparent radius.
const StandardZenith = 90.8

// Coefficients of the Almanac for Computers (1990) sunrise/sunset algorithm.
const (
	meanAnomalyRate   = 0.9856
	meanAnomalyEpoch  = 3.289
	centerTerm1       = 1.916
	centerTerm2       = 0.020
	perihelionLong    = 282.634
	obliquityTanRatio = 0.91764 // cos(obliquity)
	obliquitySin      = 0.39782 // sin(obliquity)
	siderealRate      = 0.06571
	siderealOffset    = 6.622
)

// EventTime computes sunrise (rising == true) or sunset for an observer at
// lat, lon (degrees) on the given calendar date. zenith is the effective
// zenith angle in degrees, i.e. StandardZenith plus any twilight offset.
//
// The returned time is in UTC with minute resolution. The boolean is false
// when the Sun does not cross zenith at this location on this date, in which
// case the time is the zero value.
func EventTime(lat, lon float64, year int, month time.Month, day int, zenith float64, rising bool) (time.Time, bool) {
	ut, ok := decimalHoursUTC(lat, lon, year, month, day, zenith, rising)
	if !ok {
		return time.Time{}, false
	}
	return ClockTime(year, month, day, ut), true
}

// decimalHoursUTC runs the numeric part of the algorithm and returns the
// event as decimal hours in [0, 24) UTC.
func decimalHoursUTC(lat, lon float64, year int, month time.Month, day int, zenith float64, rising bool) (float64, bool) {
	n := timeutil.ApproxDayOfYear(year, month, day)

	// Longitude as an hour offset, and an approximate event time in days.
	lngHour := lon / 15
	var t float64
	if rising {
		t = n + ((6 - lngHour) / 24)
	} else {
		t = n + ((18 - lngHour) / 24)
	}

	// Mean anomaly.
	m := (meanAnomalyRate * t) - meanAnomalyEpoch

	// True longitude.
	l := m +
		(centerTerm1 * timeutil.SinD(m)) +
		(centerTerm2 * timeutil.SinD(2*m)) +
		perihelionLong
	l = timeutil.Normalize360(l)

	// Right ascension, moved into the same quadrant as L, then in hours.
	ra := timeutil.AtanD(obliquityTanRatio * timeutil.TanD(l))
	ra = timeutil.Normalize360(ra)
	lQuadrant := math.Floor(l/90) * 90
	raQuadrant := math.Floor(ra/90) * 90
	ra += lQuadrant - raQuadrant
	ra /= 15

	// Declination.
	sinDec := obliquitySin * timeutil.SinD(l)
	cosDec := math.Cos(math.Asin(sinDec))

	// Local hour angle.
	cosH := (timeutil.CosD(zenith) - (sinDec * timeutil.SinD(lat))) /
		(cosDec * timeutil.CosD(lat))
	if cosH > 1 || cosH < -1 {
		return 0, false
	}

	var h float64
	if rising {
		h = 360 - timeutil.AcosD(cosH)
	} else {
		h = timeutil.AcosD(cosH)
	}
	h /= 15

	// Local mean time of the event, then back to UTC.
	localMean := h + ra - (siderealRate * t) - siderealOffset
	return timeutil.Normalize24(localMean - lngHour), true
}

// ClockTime turns decimal UTC hours on (year, month, day) into a UTC time
// with minute resolution. Minutes are rounded half to even; a carry that
// reaches 24:00 moves the result to 00:00 on the following day.
func ClockTime(year int, month time.Month, day int, ut float64) time.Time {
	whole := math.Trunc(ut)
	hour := int(timeutil.Normalize24(whole))
	minute := int(math.RoundToEven((ut - whole) * 60))
	if minute == 60 {
		hour++
		minute = 0
	}
	if hour == 24 {
		hour = 0
		year, month, day = timeutil.NextDay(year, month, day)
	}
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
