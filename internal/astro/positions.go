package astro

// Positions bundles every model output for one instant.
type Positions struct {
	Moment Moment
	Earth  EarthState
	Sun    SunState
	Moon   MoonState
}

// ComputeBodyPositions evaluates the Earth, Sun and Moon models for a Unix
// millisecond instant. The Sun is evaluated first because the Moon series
// reuses its mean anomaly.
func ComputeBodyPositions(ms int64) Positions {
	mo := NewMoment(ms)
	earth := Earth(mo.Century)
	sun := Sun(mo.Century, earth)
	moon := Moon(mo.Century, sun.MeanAnomalyDeg, earth)
	return Positions{
		Moment: mo,
		Earth:  earth,
		Sun:    sun,
		Moon:   moon,
	}
}
