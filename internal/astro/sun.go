// Package astro provides the solar and lunar ephemeris, time scales and the
// rise/set solver behind the Roman sun clock.
package astro

import "math"

// SunState is the output of the solar model. The mean anomaly is reused as
// an input by the lunar model.
type SunState struct {
	Position BodyPosition

	MeanLongitudeDeg     float64
	MeanAnomalyDeg       float64
	EquationOfCenterDeg  float64
	TrueLongitudeDeg     float64
	TrueAnomalyDeg       float64
	RadiusAU             float64
	ApparentLongitudeDeg float64
	ApparentObliquityDeg float64
}

// Sun calculates the apparent equatorial coordinates of the Sun using the
// low-accuracy method of the Astronomical Almanac (Meeus ch. 25).
// Accuracy: ~0.01 degrees, plenty for rise/set to the second.
func Sun(century float64, earth EarthState) SunState {
	T := century

	// Mean longitude and mean anomaly (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	trueLon := L0 + C
	v := M + C

	e := earth.Eccentricity
	R := (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(degToRad(v)))

	// Aberration and nutation in longitude
	omega := degToRad(125.04 - 1934.136*T)
	appLon := trueLon - 0.00569 - 0.00478*math.Sin(omega)
	eps := earth.ObliquityDeg + 0.00256*math.Cos(omega)

	lambda := degToRad(appLon)
	epsRad := degToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(lambda), math.Cos(lambda))
	dec := math.Asin(math.Sin(epsRad) * math.Sin(lambda))

	return SunState{
		Position: BodyPosition{
			RightAscensionDeg: normalizeAngle360(radToDeg(ra)),
			DeclinationDeg:    radToDeg(dec),
		},
		MeanLongitudeDeg:     L0,
		MeanAnomalyDeg:       M,
		EquationOfCenterDeg:  C,
		TrueLongitudeDeg:     normalizeAngle360(trueLon),
		TrueAnomalyDeg:       normalizeAngle360(v),
		RadiusAU:             R,
		ApparentLongitudeDeg: normalizeAngle360(appLon),
		ApparentObliquityDeg: eps,
	}
}

// AngularSeparation calculates the angular separation between two points on
// the celestial sphere. All coordinates in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}
