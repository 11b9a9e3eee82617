package astro

import "errors"

// ErrInsufficientSamples is returned when a trace is too short to analyse.
var ErrInsufficientSamples = errors.New("insufficient samples for elevation trace")

// ElevationSample is the horizontal position of a body at an instant.
type ElevationSample struct {
	Instant int64
	AzDeg   float64
	ElDeg   float64
}

// ElevationTrace samples the altitude of a body over [from, to].
type ElevationTrace struct {
	Body    string
	Samples []ElevationSample
}

// TraceElevation samples body every stepMs between from and to inclusive.
func TraceElevation(body Body, obs Observer, from, to, stepMs int64) (ElevationTrace, error) {
	if err := obs.Validate(); err != nil {
		return ElevationTrace{}, err
	}
	if stepMs <= 0 || to-from < 2*stepMs {
		return ElevationTrace{}, ErrInsufficientSamples
	}

	trace := ElevationTrace{Body: body.Name()}
	for ms := from; ms <= to; ms += stepMs {
		h := EquatorialToHorizontal(body.Position(ms), obs, ms)
		trace.Samples = append(trace.Samples, ElevationSample{Instant: ms, AzDeg: h.AzDeg, ElDeg: h.ElDeg})
	}
	return trace, nil
}

// Culmination returns the instant and elevation of the highest point of the
// trace, refined by fitting a parabola through the three samples around the
// discrete maximum.
func (t ElevationTrace) Culmination() (int64, float64) {
	if len(t.Samples) == 0 {
		return 0, 0
	}

	maxIdx := 0
	for i, s := range t.Samples {
		if s.ElDeg > t.Samples[maxIdx].ElDeg {
			maxIdx = i
		}
	}
	best := t.Samples[maxIdx]
	if maxIdx == 0 || maxIdx == len(t.Samples)-1 {
		return best.Instant, best.ElDeg
	}

	// Parabola through t = -1, 0, +1: y = at² + bt + c.
	y0 := t.Samples[maxIdx-1].ElDeg
	y1 := best.ElDeg
	y2 := t.Samples[maxIdx+1].ElDeg
	a := (y0+y2)/2 - y1
	b := (y2 - y0) / 2
	if a >= 0 {
		return best.Instant, best.ElDeg
	}

	tMax := clamp(-b/(2*a), -1, 1)
	step := best.Instant - t.Samples[maxIdx-1].Instant
	instant := best.Instant + int64(float64(step)*tMax)
	return instant, a*tMax*tMax + b*tMax + y1
}

// Current returns the sample closest to ms, or false for an empty trace.
func (t ElevationTrace) Current(ms int64) (ElevationSample, bool) {
	if len(t.Samples) == 0 {
		return ElevationSample{}, false
	}
	best := t.Samples[0]
	for _, s := range t.Samples[1:] {
		if abs64(s.Instant-ms) < abs64(best.Instant-ms) {
			best = s
		}
	}
	return best, true
}

// ElevationTier categorizes elevation for display.
type ElevationTier int

const (
	TierBelow    ElevationTier = iota // below the horizon
	TierTwilight                      // 0 to -18 degrees for the Sun
	TierLow                           // 0-20 degrees
	TierHigh                          // >= 20 degrees
)

// GetElevationTier returns the display tier for an elevation angle.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg < -18:
		return TierBelow
	case elDeg < 0:
		return TierTwilight
	case elDeg < 20:
		return TierLow
	default:
		return TierHigh
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
