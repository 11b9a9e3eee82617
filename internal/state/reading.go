package state

import (
	"fmt"
	"time"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/roman"
	"github.com/litescript/ls-sunclock/internal/sunmodel"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

// traceStep is the sampling interval of the daily elevation traces.
const traceStep = 20 * 60 * 1000

// Reading is everything computed for one instant and observer.
type Reading struct {
	Instant   int64
	Observer  astro.Observer
	Model     string
	Positions astro.Positions
	Sun       astro.SkyCoord
	Moon      astro.SkyCoord
	Timeline  timeline.Timeline
	Roman     roman.Time

	// MoonRiseSet is the Moon's result for the UTC day of Instant.
	MoonRiseSet astro.RiseSetResult

	// SunTrace and MoonTrace cover the UTC day of Instant.
	SunTrace  astro.ElevationTrace
	MoonTrace astro.ElevationTrace
}

// Computer produces readings with a fixed day solver.
type Computer struct {
	model   sunmodel.Model
	builder *timeline.Builder
	moon    sunmodel.Series
}

// NewComputer returns a Computer for model. Builder options such as a tracer
// are passed through.
func NewComputer(model sunmodel.Model, opts ...timeline.Option) *Computer {
	return &Computer{
		model:   model,
		builder: timeline.NewBuilder(model, opts...),
		moon:    sunmodel.NewSeries(astro.MoonBody{}),
	}
}

// Model returns the name of the day solver in use.
func (c *Computer) Model() string {
	return c.model.Name()
}

// Compute builds the reading for ms.
func (c *Computer) Compute(ms int64, obs astro.Observer) (*Reading, error) {
	tl, err := c.builder.Build(ms, obs)
	if err != nil {
		return nil, err
	}

	pos := astro.ComputeBodyPositions(ms)
	dayStart := astro.DayStart(ms)

	moonRS, err := c.moon.SolveDay(dayStart, obs)
	if err != nil {
		return nil, fmt.Errorf("moon rise/set: %w", err)
	}
	sunTrace, err := astro.TraceElevation(astro.SunBody{}, obs, dayStart, dayStart+astro.DayMillis, traceStep)
	if err != nil {
		return nil, fmt.Errorf("sun trace: %w", err)
	}
	moonTrace, err := astro.TraceElevation(astro.MoonBody{}, obs, dayStart, dayStart+astro.DayMillis, traceStep)
	if err != nil {
		return nil, fmt.Errorf("moon trace: %w", err)
	}

	return &Reading{
		Instant:     ms,
		Observer:    obs,
		Model:       c.model.Name(),
		Positions:   pos,
		Sun:         astro.EquatorialToHorizontal(pos.Sun.Position, obs, ms),
		Moon:        astro.EquatorialToHorizontal(pos.Moon.Position, obs, ms),
		Timeline:    tl,
		Roman:       roman.Convert(tl, ms),
		MoonRiseSet: moonRS,
		SunTrace:    sunTrace,
		MoonTrace:   moonTrace,
	}, nil
}

// Time returns Instant as a time.Time in UTC.
func (r *Reading) Time() time.Time {
	return time.UnixMilli(r.Instant).UTC()
}
