package timeline

import (
	"fmt"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/logging"
)

// DaySolver produces the sunrise/sunset result for one UTC day.
type DaySolver interface {
	SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error)
}

// DaySolverFunc adapts a function to DaySolver.
type DaySolverFunc func(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error)

// SolveDay implements DaySolver.
func (f DaySolverFunc) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	return f(dayStart, obs)
}

// Tracer receives diagnostics from the builder. *logging.Logger satisfies it.
type Tracer interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Builder assembles timelines from per-day solutions.
type Builder struct {
	solver DaySolver
	tracer Tracer
}

// Option configures a Builder.
type Option func(*Builder)

// WithTracer routes builder diagnostics to tr.
func WithTracer(tr Tracer) Option {
	return func(b *Builder) {
		if tr != nil {
			b.tracer = tr
		}
	}
}

// NewBuilder returns a Builder. A nil solver means the refined series
// solver for the Sun.
func NewBuilder(solver DaySolver, opts ...Option) *Builder {
	if solver == nil {
		solver = sunSolver{solver: astro.NewSolver()}
	}
	b := &Builder{
		solver: solver,
		tracer: logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// sunSolver is the default DaySolver.
type sunSolver struct {
	solver *astro.Solver
}

func (s sunSolver) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	return s.solver.RiseSet(astro.SunBody{}, dayStart, obs)
}

// Build returns the timeline around ms for the observer. The solver is
// consulted for the day containing ms and at most once more for each of the
// neighbouring days.
func (b *Builder) Build(ms int64, obs astro.Observer) (Timeline, error) {
	if err := obs.Validate(); err != nil {
		return Timeline{}, err
	}

	dayStart := astro.DayStart(ms)
	today, err := b.solver.SolveDay(dayStart, obs)
	if err != nil {
		return Timeline{}, fmt.Errorf("solve day %d: %w", dayStart, err)
	}
	b.tracer.Debug("day %d: %T", dayStart, today)

	pool := transitions(today)
	last, next := bracket(pool, ms)

	// One lookback and one lookahead, never chained.
	lookups := []struct {
		needed func() bool
		day    int64
	}{
		{func() bool { return last == nil }, dayStart - astro.DayMillis},
		{func() bool { return next == nil }, dayStart + astro.DayMillis},
	}
	for _, l := range lookups {
		if !l.needed() {
			continue
		}
		res, err := b.solver.SolveDay(l.day, obs)
		if err != nil {
			return Timeline{}, fmt.Errorf("solve day %d: %w", l.day, err)
		}
		b.tracer.Debug("day %d: %T", l.day, res)
		pool = append(pool, transitions(res)...)
		last, next = bracket(pool, ms)
	}

	if last != nil && next != nil && last.Kind == next.Kind {
		b.tracer.Warn("consecutive %s transitions at %d and %d", last.Kind, last.Epoch, next.Epoch)
		if ms-last.Epoch > next.Epoch-ms {
			last = nil
		} else {
			next = nil
		}
	}

	return Timeline{
		DayType:  classify(last, next, today),
		Instant:  ms,
		DayStart: dayStart,
		Last:     last,
		Next:     next,
	}, nil
}

// transitions lists the events of a day result.
func transitions(res astro.RiseSetResult) []TransitionPoint {
	n, ok := res.(astro.NormalDayAndNight)
	if !ok {
		return nil
	}
	return []TransitionPoint{
		{Kind: Sunrise, Epoch: n.Rise},
		{Kind: Sunset, Epoch: n.Set},
	}
}

// bracket picks the latest transition at or before ms and the earliest
// strictly after it.
func bracket(pool []TransitionPoint, ms int64) (last, next *TransitionPoint) {
	for i := range pool {
		p := pool[i]
		if p.Epoch <= ms {
			if last == nil || p.Epoch > last.Epoch {
				last = &p
			}
		} else if next == nil || p.Epoch < next.Epoch {
			next = &p
		}
	}
	return last, next
}

func classify(last, next *TransitionPoint, today astro.RiseSetResult) DayType {
	switch {
	case last != nil && next != nil:
		if last.Kind == Sunrise {
			return NormalDay
		}
		return NormalNight
	case last != nil:
		if last.Kind == Sunrise {
			return FullDay
		}
		return FullNight
	case next != nil:
		if next.Kind == Sunrise {
			return FullNight
		}
		return FullDay
	}
	if _, ok := today.(astro.CircumpolarDay); ok {
		return FullDay
	}
	return FullNight
}

// BuildTimeline builds the Sun timeline for an instant and location using
// the default solver.
func BuildTimeline(ms int64, latDeg, lonDeg, altM float64) (Timeline, error) {
	obs := astro.Observer{LatDeg: latDeg, LonDeg: lonDeg, AltM: altM}
	return NewBuilder(nil).Build(ms, obs)
}
