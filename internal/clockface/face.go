// Package clockface computes the geometry of a 24-hour sun clock and draws
// it onto a rune canvas.
package clockface

import (
	"math"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/roman"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

const fullCircle = 2 * math.Pi

// Point is a position relative to the clock centre. Y grows downwards.
type Point struct {
	X, Y float64
}

// PointOn returns the point at angle (0 at the top, clockwise) and radius.
func PointOn(angle, radius float64) Point {
	return Point{
		X: math.Cos(angle-math.Pi/2) * radius,
		Y: math.Sin(angle-math.Pi/2) * radius,
	}
}

// AngleOf maps ts to its angle on the dial measured from dayStart, one full
// turn per day.
func AngleOf(ts, dayStart int64) float64 {
	return float64(ts-dayStart) / float64(astro.DayMillis) * fullCircle
}

// Tick is a mark on the dial.
type Tick struct {
	Angle float64
	Major bool
}

// Arc runs clockwise from From for Span radians.
type Arc struct {
	From float64
	Span float64
}

// Contains reports whether angle lies on the arc.
func (a Arc) Contains(angle float64) bool {
	if a.Span <= 0 {
		return false
	}
	if a.Span >= fullCircle {
		return true
	}
	return normalize(angle-a.From) <= a.Span
}

// Icon is the symbol drawn in the dial centre.
type Icon int

const (
	IconSun Icon = iota
	IconMoon
)

// Face is the full geometry of one clock reading. Angles are in radians of
// local wall time.
type Face struct {
	HandAngle  float64
	Day        Arc
	Night      Arc
	HourTicks  []Tick
	DayLines   []Tick
	NightLines []Tick
	Icon       Icon
	Label      string
	LocalLabel string
	DayType    timeline.DayType
}

// Build lays out the face for a Roman reading at ms. tzOffsetMinutes is the
// local offset east of UTC.
func Build(tl timeline.Timeline, rt roman.Time, ms int64, tzOffsetMinutes int) Face {
	offset := int64(tzOffsetMinutes) * 60000
	local := func(ts int64) float64 {
		return normalize(AngleOf(ts+offset, 0))
	}

	f := Face{
		HandAngle:  local(ms),
		HourTicks:  hourTicks(),
		Icon:       IconMoon,
		Label:      rt.String(),
		LocalLabel: wallClock(ms + offset),
		DayType:    tl.DayType,
	}
	if tl.DayType.IsDay() {
		f.Icon = IconSun
	}

	if !tl.Complete() {
		if tl.DayType.IsDay() {
			f.Day = Arc{From: 0, Span: fullCircle}
		} else {
			f.Night = Arc{From: 0, Span: fullCircle}
		}
		return f
	}

	sunrise, sunset := tl.Last.Epoch, tl.Next.Epoch
	if tl.Last.Kind == timeline.Sunset {
		sunrise, sunset = sunset, sunrise
	}
	riseAngle, setAngle := local(sunrise), local(sunset)
	daySpan := normalize(setAngle - riseAngle)

	f.Day = Arc{From: riseAngle, Span: daySpan}
	f.Night = Arc{From: setAngle, Span: fullCircle - daySpan}
	f.DayLines = romanLines(riseAngle, daySpan/12)
	f.NightLines = romanLines(setAngle, (fullCircle-daySpan)/12)
	return f
}

func hourTicks() []Tick {
	ticks := make([]Tick, 24)
	for i := range ticks {
		ticks[i] = Tick{Angle: float64(i) * fullCircle / 24, Major: i%3 == 0}
	}
	return ticks
}

// romanLines marks the 11 boundaries inside a 12-hour half.
func romanLines(start, step float64) []Tick {
	lines := make([]Tick, 0, 11)
	for i := 1; i < 12; i++ {
		lines = append(lines, Tick{Angle: normalize(start + float64(i)*step), Major: i%3 == 0})
	}
	return lines
}

func wallClock(ms int64) string {
	of := ms % astro.DayMillis
	if of < 0 {
		of += astro.DayMillis
	}
	minutes := of / 60000
	return roman.Time{Hours: int(minutes / 60), Minutes: int(minutes % 60)}.String()
}

// normalize maps an angle into [0, 2π).
func normalize(a float64) float64 {
	a = math.Mod(a, fullCircle)
	if a < 0 {
		a += fullCircle
	}
	return a
}
