package astro

import "math"

// Standard geometric altitudes of the body center at rise/set, in degrees.
const (
	// StandardAltitudeSun accounts for refraction and the solar semidiameter.
	StandardAltitudeSun = -0.8333
	// StandardAltitudeStar accounts for refraction only.
	StandardAltitudeStar = -0.5667
)

// RiseSetResult is one of NormalDayAndNight, CircumpolarDay or
// CircumpolarNight.
type RiseSetResult interface {
	riseSet()
}

// NormalDayAndNight carries rise and set instants in Unix ms.
type NormalDayAndNight struct {
	Rise int64
	Set  int64
}

// CircumpolarDay means the body stays above the horizon all day.
type CircumpolarDay struct{}

// CircumpolarNight means the body stays below the horizon all day.
type CircumpolarNight struct{}

func (NormalDayAndNight) riseSet() {}
func (CircumpolarDay) riseSet()    {}
func (CircumpolarNight) riseSet()  {}

// MoonStandardAltitude returns h0 for the Moon given its horizontal parallax.
func MoonStandardAltitude(parallaxDeg float64) float64 {
	return 0.7275*parallaxDeg + StandardAltitudeStar
}

// ElevationCorrection returns how far (degrees) the horizon dips for an
// observer altM meters above sea level.
func ElevationCorrection(altM float64) float64 {
	if altM <= 0 {
		return 0
	}
	return 2.076 * math.Sqrt(altM) / 60
}

// ComputeRiseSet solves the hour-angle equation for one body position.
//
// lonDeg is east positive. siderealDeg is the Greenwich sidereal time at
// dayStart, h0Deg the geometric altitude threshold. Event fractions are
// wrapped into the day beginning at dayStart, so for longitudes far from
// Greenwich the set may come before the rise.
func ComputeRiseSet(pos BodyPosition, latDeg, lonDeg, siderealDeg, h0Deg float64, dayStart int64) (RiseSetResult, error) {
	if err := validateLatLon(latDeg, lonDeg); err != nil {
		return nil, err
	}

	H, class := hourAngle(pos.DeclinationDeg, latDeg, h0Deg)
	if class != nil {
		return class, nil
	}

	// Meeus measures longitude positive west.
	m0 := wrapFraction((pos.RightAscensionDeg - lonDeg - siderealDeg) / 360)
	m1 := wrapFraction(m0 - H/360)
	m2 := wrapFraction(m0 + H/360)

	return NormalDayAndNight{
		Rise: dayStart + fractionToMillis(m1),
		Set:  dayStart + fractionToMillis(m2),
	}, nil
}

// hourAngle returns the hour angle (degrees) at which the body crosses h0,
// or the circumpolar classification when it never does.
func hourAngle(decDeg, latDeg, h0Deg float64) (float64, RiseSetResult) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)

	cosH := (math.Sin(degToRad(h0Deg)) - math.Sin(lat)*math.Sin(dec)) / (math.Cos(lat) * math.Cos(dec))
	switch {
	case math.IsNaN(cosH):
		// cos(lat) == 0 at the poles: the sign of the declination decides.
		if (latDeg > 0) == (decDeg > 0) {
			return 0, CircumpolarDay{}
		}
		return 0, CircumpolarNight{}
	case cosH <= -1:
		return 0, CircumpolarDay{}
	case cosH >= 1:
		return 0, CircumpolarNight{}
	}

	return radToDeg(math.Acos(clamp(cosH, -1, 1))), nil
}

func wrapFraction(m float64) float64 {
	m -= math.Floor(m)
	if m >= 1 {
		m = 0
	}
	return m
}

func fractionToMillis(m float64) int64 {
	return int64(math.Round(m * float64(DayMillis)))
}
