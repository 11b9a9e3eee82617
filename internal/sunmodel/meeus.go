package sunmodel

import (
	"errors"
	"fmt"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/rise"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-sunclock/internal/astro"
)

// Meeus solves with the soniakeys/meeus implementation of the same
// one-shot hour-angle method, used as an independent reference.
type Meeus struct{}

// Name implements Model.
func (Meeus) Name() string { return "meeus" }

// SolveDay implements timeline.DaySolver.
func (Meeus) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	jd := astro.EpochToJulian(dayStart)
	jde := jd + astro.TerrestrialTimeOffset/86400
	α, δ := solar.ApparentEquatorial(jde)
	th0 := sidereal.Mean0UT(jd)
	h0 := unit.AngleFromDeg(astro.StandardAltitudeSun - astro.ElevationCorrection(obs.AltM))

	// meeus measures longitude positive west.
	coord := globe.Coord{
		Lat: unit.AngleFromDeg(obs.LatDeg),
		Lon: unit.AngleFromDeg(-obs.LonDeg),
	}
	tRise, _, tSet, err := rise.ApproxTimes(coord, h0, th0, α, δ)
	if errors.Is(err, rise.ErrorCircumpolar) {
		if transitAltitude(obs.LatDeg, δ.Deg()) > h0.Deg() {
			return astro.CircumpolarDay{}, nil
		}
		return astro.CircumpolarNight{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("meeus rise/set: %w", err)
	}

	return astro.NormalDayAndNight{
		Rise: dayStart + int64(tRise.Sec()*1000+0.5),
		Set:  dayStart + int64(tSet.Sec()*1000+0.5),
	}, nil
}

// transitAltitude is the altitude of a body at upper culmination.
func transitAltitude(latDeg, decDeg float64) float64 {
	d := latDeg - decDeg
	if d < 0 {
		d = -d
	}
	return 90 - d
}
