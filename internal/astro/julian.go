package astro

import "math"

const (
	// DayMillis is the length of a civil day in milliseconds.
	DayMillis int64 = 86400000

	// unixEpochJD is the Julian Date of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5

	// J2000 is the Julian Date of the J2000.0 epoch.
	J2000 = 2451545.0

	// daysPerCentury is the length of a Julian century in days.
	daysPerCentury = 36525.0

	// TerrestrialTimeOffset is the leap-second plus TT offset (seconds)
	// added to UT to obtain the Julian Ephemeris Day.
	TerrestrialTimeOffset = 69.184
)

// Moment holds every time scale derived from a single instant.
// It is computed once per instant and never mutated.
type Moment struct {
	Instant             int64   // Unix ms, floored to whole seconds
	JulianDate          float64 // Civil (UT) Julian Date
	JulianEphemerisDate float64 // JD + TerrestrialTimeOffset
	Century             float64 // Julian centuries since J2000 (ephemeris time)
	SiderealTimeDeg     float64 // GMST at 0h UT of the day, degrees [0,360)
	DayStart            int64   // Unix ms of 00:00 UTC of the day
}

// NewMoment builds a Moment for the given Unix millisecond timestamp.
// The instant is floored to whole seconds first so that a timestamp one
// millisecond before midnight stays in its own day.
func NewMoment(ms int64) Moment {
	floored := floorDiv(ms, 1000) * 1000

	jd := EpochToJulian(floored)
	jde := jd + TerrestrialTimeOffset/86400.0
	jd0 := math.Floor(jd-0.5) + 0.5

	return Moment{
		Instant:             floored,
		JulianDate:          jd,
		JulianEphemerisDate: jde,
		Century:             JulianCentury(jde),
		SiderealTimeDeg:     GreenwichSiderealTime(jd0),
		DayStart:            DayStart(floored),
	}
}

// EpochToJulian converts Unix milliseconds to a Julian Date.
func EpochToJulian(ms int64) float64 {
	return float64(ms)/float64(DayMillis) + unixEpochJD
}

// JulianToEpoch converts a Julian Date to Unix milliseconds, rounded to the
// nearest millisecond.
func JulianToEpoch(jd float64) int64 {
	return int64(math.Round((jd - unixEpochJD) * float64(DayMillis)))
}

// JulianCentury returns Julian centuries elapsed since J2000.0.
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / daysPerCentury
}

// GreenwichSiderealTime returns the Greenwich mean sidereal time in degrees
// for a UT Julian Date (Meeus 12.4). Pass a Julian Date ending in .5 to get
// the value at 0h UT.
func GreenwichSiderealTime(jd float64) float64 {
	T := JulianCentury(jd)
	theta := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0
	return normalizeAngle360(theta)
}

// DayStart returns the Unix ms of 00:00 UTC of the day containing ms.
func DayStart(ms int64) int64 {
	return floorDiv(ms, DayMillis) * DayMillis
}

// DayEnd returns the last millisecond of the UTC day containing ms.
func DayEnd(ms int64) int64 {
	return DayStart(ms) + DayMillis - 1
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
