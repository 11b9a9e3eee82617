package timeline

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/logging"
)

const (
	malagaLat = 36.6952469
	malagaLon = -4.4538953

	// Reference transitions for Málaga around 2022-06-10. They come from
	// the low-precision sunrise equation; the refined solver lands within
	// 15 s of each.
	malagaSunset0609  = int64(1654803323788)
	malagaSunrise0610 = int64(1654837126628)
	malagaSunset0610  = int64(1654889753237)
	malagaSunrise0611 = int64(1654923521349)

	tolMs = int64(15 * 1000)
)

// countingSolver records every day it is asked to solve.
type countingSolver struct {
	inner DaySolver
	days  []int64
}

func (c *countingSolver) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	c.days = append(c.days, dayStart)
	return c.inner.SolveDay(dayStart, obs)
}

func newCounting() *countingSolver {
	return &countingSolver{inner: sunSolver{solver: astro.NewSolver()}}
}

func assertNear(t *testing.T, want, got int64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, float64(want), float64(got), float64(tolMs), msgAndArgs...)
}

func TestBuild_MalagaAtMidnight(t *testing.T) {
	solver := newCounting()
	tl, err := NewBuilder(solver).Build(1654819200000, astro.Observer{LatDeg: malagaLat, LonDeg: malagaLon})
	require.NoError(t, err)
	require.NotNil(t, tl.Last)
	require.NotNil(t, tl.Next)

	assert.Equal(t, NormalNight, tl.DayType)
	assert.Equal(t, Sunset, tl.Last.Kind)
	assert.Equal(t, Sunrise, tl.Next.Kind)
	assertNear(t, malagaSunset0609, tl.Last.Epoch, "last change")
	assertNear(t, malagaSunrise0610, tl.Next.Epoch, "next change")
	assert.NoError(t, tl.Valid())

	// Today, then yesterday; tomorrow is not needed.
	assert.Equal(t, []int64{1654819200000, 1654819200000 - astro.DayMillis}, solver.days)
}

func TestBuild_MalagaLastMillisecondOfDay(t *testing.T) {
	solver := newCounting()
	tl, err := NewBuilder(solver).Build(1654905599999, astro.Observer{LatDeg: malagaLat, LonDeg: malagaLon})
	require.NoError(t, err)
	require.True(t, tl.Complete())

	assert.Equal(t, NormalNight, tl.DayType)
	assertNear(t, malagaSunset0610, tl.Last.Epoch, "last change")
	assertNear(t, malagaSunrise0611, tl.Next.Epoch, "next change")
	assert.Equal(t, int64(1654819200000), tl.DayStart)
	assert.Len(t, solver.days, 2)
}

func TestBuild_MalagaMorning(t *testing.T) {
	solver := newCounting()
	tl, err := NewBuilder(solver).Build(1654848000000, astro.Observer{LatDeg: malagaLat, LonDeg: malagaLon})
	require.NoError(t, err)
	require.True(t, tl.Complete())

	assert.Equal(t, NormalDay, tl.DayType)
	assertNear(t, malagaSunrise0610, tl.Last.Epoch)
	assertNear(t, malagaSunset0610, tl.Next.Epoch)
	assert.Len(t, solver.days, 1, "both transitions come from today")
}

func TestBuild_Budapest(t *testing.T) {
	tl, err := BuildTimeline(1668120600000, 47.49801, 19.03991, 0)
	require.NoError(t, err)
	assert.Equal(t, NormalNight, tl.DayType)
	assert.NoError(t, tl.Valid())
}

func TestBuild_Polar(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		epoch    int64
		want     DayType
	}{
		{"midnight sun", 67.5, 24.6657, 1656576000000, FullDay},
		{"polar night", 67.5, 0, 1640159200000, FullNight},
		{"south pole in june", -89, 0, time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC).UnixMilli(), FullNight},
		{"north pole in june", 89, 0, time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC).UnixMilli(), FullDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := BuildTimeline(tt.epoch, tt.lat, tt.lon, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tl.DayType)
			assert.NoError(t, tl.Valid())
		})
	}
}

func TestBuild_LastDayWithSunInTheNight(t *testing.T) {
	// 2024-12-06 15:56 UTC at 68.3N: the day's short window of sunlight
	// ended at about 10:30 and tomorrow has none.
	tl, err := BuildTimeline(1733500560000, 68.2992471, 22.2632669, 0)
	require.NoError(t, err)

	assert.Equal(t, FullNight, tl.DayType)
	require.NotNil(t, tl.Last)
	assert.Equal(t, Sunset, tl.Last.Kind)
	assert.Nil(t, tl.Next)
	assert.NoError(t, tl.Valid())

	el := astro.EquatorialToHorizontal(astro.SunBody{}.Position(tl.Instant), astro.Observer{LatDeg: 68.2992471, LonDeg: 22.2632669}, tl.Instant).ElDeg
	assert.Less(t, el, -10.0)
}

func TestBuild_BoundedLookups(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		for _, hour := range []int{0, 6, 12, 23} {
			instant := time.Date(2023, month, 10, hour, 30, 0, 0, time.UTC).UnixMilli()
			for lat := -89.0; lat <= 89; lat += 4 {
				solver := newCounting()
				tl, err := NewBuilder(solver).Build(instant, astro.Observer{LatDeg: lat, LonDeg: 15})
				require.NoError(t, err)

				require.LessOrEqual(t, len(solver.days), 3, "lat=%v month=%v hour=%d", lat, month, hour)
				dayStart := astro.DayStart(instant)
				for _, d := range solver.days {
					diff := d - dayStart
					require.Contains(t, []int64{-astro.DayMillis, 0, astro.DayMillis}, diff,
						"lat=%v month=%v: solved a day more than one away", lat, month)
				}
				require.NoError(t, tl.Valid(), "lat=%v month=%v hour=%d", lat, month, hour)

				// Away from the horizon the day type follows the Sun.
				obs := astro.Observer{LatDeg: lat, LonDeg: 15}
				el := astro.EquatorialToHorizontal(astro.SunBody{}.Position(instant), obs, instant).ElDeg
				switch {
				case el > 2:
					assert.True(t, tl.DayType.IsDay(), "lat=%v month=%v hour=%d el=%.1f: %s", lat, month, hour, el, tl.DayType)
				case el < -2:
					assert.False(t, tl.DayType.IsDay(), "lat=%v month=%v hour=%d el=%.1f: %s", lat, month, hour, el, tl.DayType)
				}
			}
		}
	}
}

func TestBuild_AlternatesAcrossDay(t *testing.T) {
	obs := astro.Observer{LatDeg: malagaLat, LonDeg: malagaLon}
	b := NewBuilder(nil)
	start := int64(1654819200000)

	var prev Timeline
	for ms := start; ms < start+2*astro.DayMillis; ms += 17 * 60 * 1000 {
		tl, err := b.Build(ms, obs)
		require.NoError(t, err)
		require.True(t, tl.Complete(), "at %d", ms)
		require.NoError(t, tl.Valid())

		if prev.Complete() && *prev.Next != *tl.Next {
			// Crossing a transition: the old next becomes the new last.
			assert.Equal(t, *prev.Next, *tl.Last, "at %d", ms)
		}
		prev = tl
	}
}

func TestBuild_SameKindDropsFartherTransition(t *testing.T) {
	// Two sunrises around the instant, the later one closer.
	const day = int64(1700000000000) / astro.DayMillis * astro.DayMillis
	solver := DaySolverFunc(func(dayStart int64, _ astro.Observer) (astro.RiseSetResult, error) {
		if dayStart != day {
			return astro.CircumpolarDay{}, nil
		}
		return astro.NormalDayAndNight{Rise: day + 1000, Set: day - 5000}, nil
	})

	var buf bytes.Buffer
	logger := logging.New(logging.LevelDebug)
	logger.SetOutput(&buf)

	// Only sunrises and sunsets from today; set is before rise here.
	tl, err := NewBuilder(solver, WithTracer(logger)).Build(day+10, astro.Observer{})
	require.NoError(t, err)
	require.NotNil(t, tl.Next)
	require.NotNil(t, tl.Last)
	assert.Equal(t, Sunset, tl.Last.Kind)
	assert.Equal(t, Sunrise, tl.Next.Kind)

	solver = DaySolverFunc(func(dayStart int64, _ astro.Observer) (astro.RiseSetResult, error) {
		switch dayStart {
		case day:
			return astro.NormalDayAndNight{Rise: day + 100, Set: day + 50000}, nil
		case day - astro.DayMillis:
			return astro.NormalDayAndNight{Rise: day - 200, Set: day - 80000}, nil
		}
		return astro.CircumpolarNight{}, nil
	})
	tl, err = NewBuilder(solver, WithTracer(logger)).Build(day+10, astro.Observer{})
	require.NoError(t, err)

	// last = sunrise at day-200, next = sunrise at day+100; last is farther.
	assert.Nil(t, tl.Last)
	require.NotNil(t, tl.Next)
	assert.Equal(t, day+100, tl.Next.Epoch)
	assert.Equal(t, FullNight, tl.DayType)
	assert.Contains(t, buf.String(), "consecutive sunrise transitions")
}

func TestBuild_SolverError(t *testing.T) {
	boom := errors.New("boom")
	solver := DaySolverFunc(func(int64, astro.Observer) (astro.RiseSetResult, error) {
		return nil, boom
	})
	_, err := NewBuilder(solver).Build(0, astro.Observer{})
	assert.ErrorIs(t, err, boom)
}

func TestBuild_InvalidObserver(t *testing.T) {
	solver := newCounting()
	_, err := NewBuilder(solver).Build(0, astro.Observer{LatDeg: 0, LonDeg: 181})
	assert.ErrorIs(t, err, astro.ErrInvalidInput)
	assert.Empty(t, solver.days, "invalid input is rejected before solving")
}

func TestTimeline_Bounds(t *testing.T) {
	tl := Timeline{DayStart: 1000}
	start, end := tl.Bounds()
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, 1000+astro.DayMillis, end)

	tl.Last = &TransitionPoint{Kind: Sunrise, Epoch: 1500}
	tl.Next = &TransitionPoint{Kind: Sunset, Epoch: 9000}
	start, end = tl.Bounds()
	assert.Equal(t, int64(1500), start)
	assert.Equal(t, int64(9000), end)
}

func TestTimeline_Valid(t *testing.T) {
	rise := &TransitionPoint{Kind: Sunrise, Epoch: 100}
	set := &TransitionPoint{Kind: Sunset, Epoch: 200}
	rise2 := &TransitionPoint{Kind: Sunrise, Epoch: 300}

	assert.NoError(t, Timeline{Instant: 150, Last: rise, Next: set}.Valid())
	assert.NoError(t, Timeline{Instant: 100, Last: rise, Next: set}.Valid())
	assert.Error(t, Timeline{Instant: 200, Last: rise, Next: set}.Valid())
	assert.Error(t, Timeline{Instant: 50, Last: rise}.Valid())
	assert.Error(t, Timeline{Instant: 250, Last: rise, Next: rise2}.Valid())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "sunrise", Sunrise.String())
	assert.Equal(t, "sunset", Sunset.String())
	assert.Equal(t, "normal night", NormalNight.String())
	assert.True(t, FullDay.IsDay())
	assert.False(t, NormalNight.IsDay())
}
