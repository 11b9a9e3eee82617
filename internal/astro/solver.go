package astro

import "math"

// Body supplies the apparent position and rise/set threshold of a celestial
// body at an instant.
type Body interface {
	Name() string
	Position(ms int64) BodyPosition
	StandardAltitude(ms int64) float64
}

// SunBody is the Sun as seen by the rise/set solver.
type SunBody struct{}

// Name implements Body.
func (SunBody) Name() string { return "Sun" }

// Position implements Body.
func (SunBody) Position(ms int64) BodyPosition {
	mo := NewMoment(ms)
	return Sun(mo.Century, Earth(mo.Century)).Position
}

// StandardAltitude implements Body.
func (SunBody) StandardAltitude(int64) float64 { return StandardAltitudeSun }

// MoonBody is the Moon as seen by the rise/set solver.
type MoonBody struct{}

// Name implements Body.
func (MoonBody) Name() string { return "Moon" }

// Position implements Body.
func (MoonBody) Position(ms int64) BodyPosition {
	return ComputeBodyPositions(ms).Moon.Position
}

// StandardAltitude implements Body. It depends on the current parallax.
func (MoonBody) StandardAltitude(ms int64) float64 {
	return MoonStandardAltitude(ComputeBodyPositions(ms).Moon.ParallaxDeg)
}

// Solver refines the single-shot hour-angle estimate by re-evaluating the
// body position at each candidate event (Meeus ch. 15). A rise is kept
// before its transit and a set after it; when either event fails to
// converge inside that window the single-shot result is returned.
type Solver struct {
	MaxIterations int
	// Tolerance is the convergence threshold in fractions of a day.
	Tolerance float64
}

// NewSolver returns a Solver with settings good to well under a second.
func NewSolver() *Solver {
	return &Solver{
		MaxIterations: 12,
		Tolerance:     1e-7,
	}
}

// RiseSet returns the rise and set of body for the UTC day starting at
// dayStart. Refined events may drift a few minutes outside that day when
// they sit close to midnight.
func (s *Solver) RiseSet(body Body, dayStart int64, obs Observer) (RiseSetResult, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	theta0 := GreenwichSiderealTime(EpochToJulian(dayStart))
	dip := ElevationCorrection(obs.AltM)
	h0 := body.StandardAltitude(dayStart) - dip
	pos := body.Position(dayStart)

	res, err := ComputeRiseSet(pos, obs.LatDeg, obs.LonDeg, theta0, h0, dayStart)
	if err != nil {
		return nil, err
	}
	n, ok := res.(NormalDayAndNight)
	if !ok {
		return res, nil
	}
	H, _ := hourAngle(pos.DeclinationDeg, obs.LatDeg, h0)

	ev := eventSolve{
		body:   body,
		obs:    obs,
		start:  dayStart,
		theta0: theta0,
		dip:    dip,
	}
	rise0 := millisToFraction(n.Rise - dayStart)
	set0 := millisToFraction(n.Set - dayStart)
	riseTransit := rise0 + H/360
	setTransit := set0 - H/360

	rise, riseOK := s.refine(ev, rise0, riseTransit-0.5, riseTransit)
	set, setOK := s.refine(ev, set0, setTransit, setTransit+0.5)
	if !riseOK || !setOK || (rise < set) != (rise0 < set0) {
		return n, nil
	}

	return NormalDayAndNight{
		Rise: dayStart + fractionToMillis(rise),
		Set:  dayStart + fractionToMillis(set),
	}, nil
}

type eventSolve struct {
	body   Body
	obs    Observer
	start  int64
	theta0 float64
	dip    float64
}

// refine iterates the event fraction m inside (lo, hi). It reports false
// when the iterate reaches either bound or does not settle.
func (s *Solver) refine(ev eventSolve, m, lo, hi float64) (float64, bool) {
	cosLat := math.Cos(degToRad(ev.obs.LatDeg))
	for i := 0; i < s.MaxIterations; i++ {
		at := ev.start + fractionToMillis(m)
		pos := ev.body.Position(at)
		h0 := ev.body.StandardAltitude(at) - ev.dip

		theta := ev.theta0 + 360.985647*m
		H := normalizeAngle180(theta + ev.obs.LonDeg - pos.RightAscensionDeg)
		h := altitude(ev.obs.LatDeg, pos.DeclinationDeg, H)

		denom := 360 * math.Cos(degToRad(pos.DeclinationDeg)) * cosLat * math.Sin(degToRad(H))
		if math.Abs(denom) < 1e-9 {
			return m, false
		}
		// At most an hour per step.
		dm := clamp((h-h0)/denom, -1.0/24, 1.0/24)
		next := m + dm
		if next <= lo || next >= hi {
			return m, false
		}
		m = next
		if math.Abs(dm) < s.Tolerance {
			return m, true
		}
	}
	return m, false
}

func millisToFraction(ms int64) float64 {
	return float64(ms) / float64(DayMillis)
}

// normalizeAngle180 maps an angle into (-180, 180].
func normalizeAngle180(a float64) float64 {
	a = normalizeAngle360(a)
	if a > 180 {
		a -= 360
	}
	return a
}
