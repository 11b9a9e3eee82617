package astro

import "math"

const (
	// earthEquatorialRadiusKm is used for the horizontal parallax.
	earthEquatorialRadiusKm = 6378.14

	// nutationScale converts table units (0.0001") to degrees.
	nutationScale = 0.0001 / 3600
)

// MoonState is the output of the lunar model.
type MoonState struct {
	Position BodyPosition

	LongitudeDeg float64 // Apparent ecliptic longitude
	LatitudeDeg  float64 // Ecliptic latitude
	DistanceKm   float64 // Earth-Moon center distance
	ParallaxDeg  float64 // Equatorial horizontal parallax

	NutationLongitudeDeg float64
	NutationObliquityDeg float64
	TrueObliquityDeg     float64

	MeanLongitudeDeg  float64 // L'
	MeanElongationDeg float64 // D
	MeanAnomalyDeg    float64 // M'
	ArgLatitudeDeg    float64 // F

	// Illumination is the illuminated fraction of the disk, 0..1.
	Illumination float64
	// Waxing reports whether the illuminated fraction is increasing.
	Waxing bool
}

// Moon computes the apparent position of the Moon from the truncated ELP-2000
// series of Meeus ch. 47. sunMeanAnomalyDeg must come from Sun for the same
// century.
func Moon(century, sunMeanAnomalyDeg float64, earth EarthState) MoonState {
	T := century
	T2 := T * T
	T3 := T2 * T
	T4 := T3 * T

	Lp := normalizeAngle360(218.3164477 + 481267.88123421*T - 0.0015786*T2 + T3/538841 - T4/65194000)
	D := normalizeAngle360(297.8501921 + 445267.1114034*T - 0.0018819*T2 + T3/545868 - T4/113065000)
	M := normalizeAngle360(sunMeanAnomalyDeg)
	Mp := normalizeAngle360(134.9633964 + 477198.8675055*T + 0.0087414*T2 + T3/69699 - T4/14712000)
	F := normalizeAngle360(93.2720950 + 483202.0175233*T - 0.0036539*T2 - T3/3526000 + T4/863310000)

	A1 := normalizeAngle360(119.75 + 131.849*T)
	A2 := normalizeAngle360(53.09 + 479264.290*T)
	A3 := normalizeAngle360(313.45 + 481266.484*T)

	E := 1 - 0.002516*T - 0.0000074*T2

	sl, sr := lonDistSums(D, M, Mp, F, E)
	sb := latSum(D, M, Mp, F, E)

	sl += 3958*sinDeg(A1) + 1962*sinDeg(Lp-F) + 318*sinDeg(A2)
	sb += -2235*sinDeg(Lp) + 382*sinDeg(A3) + 175*sinDeg(A1-F) + 175*sinDeg(A1+F) +
		127*sinDeg(Lp-Mp) - 115*sinDeg(Lp+Mp)

	omega := normalizeAngle360(125.04452 - 1934.136261*T + 0.0020708*T2 + T3/450000)
	dPsi, dEps := nutation(T, D, M, Mp, F, omega)

	lambda := normalizeAngle360(Lp + sl/1e6 + dPsi)
	beta := sb / 1e6
	dist := 385000.56 + sr/1000
	eps := earth.ObliquityDeg + dEps

	illum, waxing := illumination(D, M, Mp)

	return MoonState{
		Position:             eclipticToEquatorial(lambda, beta, eps),
		LongitudeDeg:         lambda,
		LatitudeDeg:          beta,
		DistanceKm:           dist,
		ParallaxDeg:          radToDeg(math.Asin(earthEquatorialRadiusKm / dist)),
		NutationLongitudeDeg: dPsi,
		NutationObliquityDeg: dEps,
		TrueObliquityDeg:     eps,
		MeanLongitudeDeg:     Lp,
		MeanElongationDeg:    D,
		MeanAnomalyDeg:       Mp,
		ArgLatitudeDeg:       F,
		Illumination:         illum,
		Waxing:               waxing,
	}
}

// eccentricityFactor returns E or E² for terms involving the Sun's anomaly.
func eccentricityFactor(m int8, E float64) float64 {
	switch m {
	case 1, -1:
		return E
	case 2, -2:
		return E * E
	default:
		return 1
	}
}

func lonDistSums(D, M, Mp, F, E float64) (sl, sr float64) {
	for _, t := range moonLonDist {
		arg := float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F
		k := eccentricityFactor(t.m, E)
		sl += k * float64(t.sl) * sinDeg(arg)
		sr += k * float64(t.sr) * cosDeg(arg)
	}
	return sl, sr
}

func latSum(D, M, Mp, F, E float64) float64 {
	var sb float64
	for _, t := range moonLat {
		arg := float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F
		sb += eccentricityFactor(t.m, E) * float64(t.sb) * sinDeg(arg)
	}
	return sb
}

// nutation returns nutation in longitude and obliquity, in degrees.
func nutation(T, D, M, Mp, F, omega float64) (dPsi, dEps float64) {
	for _, t := range nutationTable {
		arg := float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F + float64(t.om)*omega
		dPsi += sinDeg(arg) * (t.psi + t.psiT*T)
		dEps += cosDeg(arg) * (t.eps + t.epsT*T)
	}
	return dPsi * nutationScale, dEps * nutationScale
}

// eclipticToEquatorial converts ecliptic longitude/latitude to RA/Dec for the
// given obliquity (Meeus 13.3, 13.4).
func eclipticToEquatorial(lambdaDeg, betaDeg, epsDeg float64) BodyPosition {
	lambda := degToRad(lambdaDeg)
	beta := degToRad(betaDeg)
	eps := degToRad(epsDeg)

	ra := math.Atan2(math.Sin(lambda)*math.Cos(eps)-math.Tan(beta)*math.Sin(eps), math.Cos(lambda))
	dec := math.Asin(clamp(math.Sin(beta)*math.Cos(eps)+math.Cos(beta)*math.Sin(eps)*math.Sin(lambda), -1, 1))

	return BodyPosition{
		RightAscensionDeg: normalizeAngle360(radToDeg(ra)),
		DeclinationDeg:    radToDeg(dec),
	}
}

// illumination approximates the illuminated fraction from the phase angle
// (Meeus 48.4).
func illumination(D, M, Mp float64) (float64, bool) {
	i := 180 - D -
		6.289*sinDeg(Mp) +
		2.100*sinDeg(M) -
		1.274*sinDeg(2*D-Mp) -
		0.658*sinDeg(2*D) -
		0.214*sinDeg(2*Mp) -
		0.110*sinDeg(D)
	return (1 + cosDeg(i)) / 2, D < 180
}

func sinDeg(a float64) float64 { return math.Sin(degToRad(a)) }
func cosDeg(a float64) float64 { return math.Cos(degToRad(a)) }
