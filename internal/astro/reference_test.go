package astro_test

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/litescript/ls-sunclock/internal/astro"
)

// referenceInstants spans several lunar months and both hemispheres of the
// ecliptic.
func referenceInstants() []int64 {
	start := time.Date(2022, 1, 3, 7, 0, 0, 0, time.UTC)
	var out []int64
	for i := 0; i < 40; i++ {
		out = append(out, start.Add(time.Duration(i)*(53*time.Hour+17*time.Minute)).UnixMilli())
	}
	return out
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return math.Abs(d)
}

func TestMoonAgainstMeeus(t *testing.T) {
	for _, ms := range referenceInstants() {
		p := astro.ComputeBodyPositions(ms)
		jde := p.Moment.JulianEphemerisDate

		λ, β, Δ := moonposition.Position(jde)
		Δψ, Δε := nutation.Nutation(jde)
		ε := nutation.MeanObliquityLaskar(jde) + Δε
		α, δ := coord.EclToEq(λ+Δψ, β, math.Sin(ε.Rad()), math.Cos(ε.Rad()))

		if d := angleDiff(p.Moon.Position.RightAscensionDeg, α.Deg()); d > 0.01 {
			t.Errorf("%d: Moon RA = %.4f°, reference %.4f°", ms, p.Moon.Position.RightAscensionDeg, α.Deg())
		}
		if d := math.Abs(p.Moon.Position.DeclinationDeg - δ.Deg()); d > 0.01 {
			t.Errorf("%d: Moon Dec = %.4f°, reference %.4f°", ms, p.Moon.Position.DeclinationDeg, δ.Deg())
		}
		if d := math.Abs(p.Moon.DistanceKm - Δ); d > 1 {
			t.Errorf("%d: Moon distance = %.1f km, reference %.1f km", ms, p.Moon.DistanceKm, Δ)
		}
	}
}

func TestSunAgainstMeeus(t *testing.T) {
	for _, ms := range referenceInstants() {
		p := astro.ComputeBodyPositions(ms)
		α, δ := solar.ApparentEquatorial(p.Moment.JulianEphemerisDate)

		if d := angleDiff(p.Sun.Position.RightAscensionDeg, α.Deg()); d > 0.001 {
			t.Errorf("%d: Sun RA = %.5f°, reference %.5f°", ms, p.Sun.Position.RightAscensionDeg, α.Deg())
		}
		if d := math.Abs(p.Sun.Position.DeclinationDeg - δ.Deg()); d > 0.001 {
			t.Errorf("%d: Sun Dec = %.5f°, reference %.5f°", ms, p.Sun.Position.DeclinationDeg, δ.Deg())
		}
	}
}

func TestSiderealTimeAgainstMeeus(t *testing.T) {
	for _, ms := range referenceInstants() {
		mo := astro.NewMoment(ms)
		jd0 := astro.EpochToJulian(mo.DayStart)
		want := math.Mod(sidereal.Mean0UT(jd0).Sec()/240, 360)

		if d := angleDiff(mo.SiderealTimeDeg, want); d > 1e-4 {
			t.Errorf("%d: GMST0 = %.6f°, reference %.6f°", ms, mo.SiderealTimeDeg, want)
		}
	}
}
