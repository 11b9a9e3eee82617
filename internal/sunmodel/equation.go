package sunmodel

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/ls-sunclock/internal/astro"
)

// Equation uses the sunrise equation as implemented by go-sunrise, solved for
// the standard solar altitude lowered by the horizon dip at the observer's
// elevation. When the library reports no event, the day is classified by
// whether the Sun and the observer share a hemisphere.
type Equation struct{}

// Name implements Model.
func (Equation) Name() string { return "equation" }

// SolveDay implements timeline.DaySolver.
func (Equation) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	day := time.UnixMilli(dayStart).UTC()
	h0 := astro.StandardAltitudeSun - astro.ElevationCorrection(obs.AltM)
	rise, set := sunrise.TimeOfElevation(obs.LatDeg, obs.LonDeg, h0, day.Year(), day.Month(), day.Day())
	if rise.IsZero() || set.IsZero() {
		return polarClass(dayStart+astro.DayMillis/2, obs.LatDeg), nil
	}
	return astro.NormalDayAndNight{Rise: rise.UnixMilli(), Set: set.UnixMilli()}, nil
}

// polarClass classifies a day without events from the solar declination at ms.
func polarClass(ms int64, latDeg float64) astro.RiseSetResult {
	dec := astro.SunBody{}.Position(ms).DeclinationDeg
	if latDeg*dec > 0 {
		return astro.CircumpolarDay{}
	}
	return astro.CircumpolarNight{}
}
