package astro

// EarthState holds the orbital elements of the Earth needed by the solar and
// lunar models.
type EarthState struct {
	Eccentricity float64 // Orbital eccentricity
	ObliquityDeg float64 // Mean obliquity of the ecliptic in degrees
}

// laskarObliquity holds the coefficients (arcseconds) of Laskar's formula
// for the mean obliquity, in ascending powers of U = T/100.
var laskarObliquity = [...]float64{
	84381.448,
	-4680.93,
	-1.55,
	1999.25,
	-51.38,
	-249.67,
	-39.05,
	7.12,
	27.87,
	5.79,
	2.45,
}

// Earth evaluates eccentricity and mean obliquity for a Julian century.
func Earth(century float64) EarthState {
	T := century
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Horner evaluation, highest power first.
	U := T / 100
	var arcsec float64
	for i := len(laskarObliquity) - 1; i >= 0; i-- {
		arcsec = arcsec*U + laskarObliquity[i]
	}

	return EarthState{
		Eccentricity: e,
		ObliquityDeg: arcsec / 3600,
	}
}
