// Package astro provides the solar and lunar ephemeris, time scales and the
// rise/set solver behind the Roman sun clock.
package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput reports coordinates outside their valid range.
var ErrInvalidInput = errors.New("invalid input")

// BodyPosition is the apparent geocentric equatorial position of a body.
type BodyPosition struct {
	RightAscensionDeg float64 // 0-360
	DeclinationDeg    float64 // -90 to +90
}

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	RAdeg  float64
	DecDeg float64

	AzDeg float64 // 0=N, 90=E, 180=S, 270=W
	ElDeg float64 // 0=horizon, 90=zenith
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	AltM   float64 // Elevation above sea level in meters
	Name   string  // Optional name for the site
}

// Validate checks latitude and longitude ranges.
func (o Observer) Validate() error {
	return validateLatLon(o.LatDeg, o.LonDeg)
}

func validateLatLon(latDeg, lonDeg float64) error {
	if math.IsNaN(latDeg) || latDeg < -90 || latDeg > 90 {
		return fmt.Errorf("latitude %v outside [-90, 90]: %w", latDeg, ErrInvalidInput)
	}
	if math.IsNaN(lonDeg) || lonDeg < -180 || lonDeg > 180 {
		return fmt.Errorf("longitude %v outside [-180, 180]: %w", lonDeg, ErrInvalidInput)
	}
	return nil
}

// EquatorialToHorizontal converts a body position to horizontal coordinates
// for an observer at the given Unix millisecond instant.
func EquatorialToHorizontal(pos BodyPosition, obs Observer, ms int64) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(pos.DeclinationDeg)

	lst := localSiderealTime(ms, obs.LonDeg)
	ha := degToRad(lst - pos.RightAscensionDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp(cosAz, -1, 1))

	// West of the meridian the azimuth is measured the long way round.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:  pos.RightAscensionDeg,
		DecDeg: pos.DeclinationDeg,
		AzDeg:  radToDeg(az),
		ElDeg:  radToDeg(alt),
	}
}

// altitude returns the geometric altitude (degrees) of a body for the given
// local hour angle.
func altitude(latDeg, decDeg, hourAngleDeg float64) float64 {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)
	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(degToRad(hourAngleDeg))
	return radToDeg(math.Asin(clamp(sinAlt, -1, 1)))
}

// localSiderealTime returns the local mean sidereal time in degrees.
func localSiderealTime(ms int64, lonDeg float64) float64 {
	return normalizeAngle360(GreenwichSiderealTime(EpochToJulian(ms)) + lonDeg)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
