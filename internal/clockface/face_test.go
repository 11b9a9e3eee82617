package clockface

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/litescript/ls-sunclock/internal/roman"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

func TestAngleOf(t *testing.T) {
	const dayStart = int64(1733011200000)
	tests := []struct {
		name string
		ts   int64
		want float64
	}{
		{"day start", dayStart, 0},
		{"6am", 1733032800000, math.Pi / 2},
		{"noon", dayStart + 43200000, math.Pi},
		{"last millisecond", 1733097599999, fullCircle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleOf(tt.ts, dayStart); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AngleOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointOn(t *testing.T) {
	tests := []struct {
		angle float64
		want  Point
	}{
		{0, Point{0, -1}},
		{math.Pi / 2, Point{1, 0}},
		{math.Pi, Point{0, 1}},
		{3 * math.Pi / 2, Point{-1, 0}},
	}
	for _, tt := range tests {
		got := PointOn(tt.angle, 1)
		if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
			t.Errorf("PointOn(%v) = %+v, want %+v", tt.angle, got, tt.want)
		}
	}
}

func malagaNight() (timeline.Timeline, roman.Time, int64) {
	tl := timeline.Timeline{
		DayType:  timeline.NormalNight,
		DayStart: 1654819200000,
		Last:     &timeline.TransitionPoint{Kind: timeline.Sunset, Epoch: 1654803323788},
		Next:     &timeline.TransitionPoint{Kind: timeline.Sunrise, Epoch: 1654837126628},
	}
	ms := int64(1654819200000)
	return tl, roman.Convert(tl, ms), ms
}

func TestBuild_NormalNight(t *testing.T) {
	tl, rt, ms := malagaNight()
	f := Build(tl, rt, ms, 120)

	if f.Icon != IconMoon {
		t.Errorf("Icon = %v, want IconMoon", f.Icon)
	}
	if f.Label != "23:38" {
		t.Errorf("Label = %q, want 23:38", f.Label)
	}
	if f.LocalLabel != "02:00" {
		t.Errorf("LocalLabel = %q, want 02:00", f.LocalLabel)
	}
	if math.Abs(f.HandAngle-fullCircle/12) > 1e-9 {
		t.Errorf("HandAngle = %v, want π/6", f.HandAngle)
	}
	if len(f.HourTicks) != 24 || len(f.DayLines) != 11 || len(f.NightLines) != 11 {
		t.Fatalf("tick counts = %d/%d/%d, want 24/11/11", len(f.HourTicks), len(f.DayLines), len(f.NightLines))
	}
	if got := f.Day.Span + f.Night.Span; math.Abs(got-fullCircle) > 1e-9 {
		t.Errorf("arcs cover %v, want a full circle", got)
	}

	// Night runs from sunset to sunrise: 33 802 840 ms.
	wantNight := 33802840.0 / 86400000 * fullCircle
	if math.Abs(f.Night.Span-wantNight) > 1e-9 {
		t.Errorf("Night.Span = %v, want %v", f.Night.Span, wantNight)
	}
	if !f.Night.Contains(f.HandAngle) || f.Day.Contains(f.HandAngle) {
		t.Error("hand should sit on the night arc")
	}

	// The sixth night line is local midnight between sunset and sunrise.
	mid := f.NightLines[5].Angle
	wantMid := normalize(f.Night.From + f.Night.Span/2)
	if math.Abs(mid-wantMid) > 1e-9 {
		t.Errorf("NightLines[5] = %v, want %v", mid, wantMid)
	}
}

func TestBuild_FullDay(t *testing.T) {
	tl := timeline.Timeline{DayType: timeline.FullDay, DayStart: 0}
	rt := roman.Convert(tl, 3600000)
	f := Build(tl, rt, 3600000, 0)

	if f.Icon != IconSun {
		t.Errorf("Icon = %v, want IconSun", f.Icon)
	}
	if !f.Day.Contains(1.234) || f.Night.Contains(1.234) {
		t.Error("a full day should be all day arc")
	}
	if len(f.DayLines) != 0 || len(f.NightLines) != 0 {
		t.Error("no Roman lines without both transitions")
	}
}

func TestArc_Contains(t *testing.T) {
	a := Arc{From: 3 * math.Pi / 2, Span: math.Pi}
	for _, tc := range []struct {
		angle float64
		want  bool
	}{
		{0, true},
		{3 * math.Pi / 2, true},
		{math.Pi / 4, true},
		{math.Pi, false},
	} {
		if got := a.Contains(tc.angle); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.angle, got, tc.want)
		}
	}
	if (Arc{}).Contains(0) {
		t.Error("empty arc contains nothing")
	}
}

func TestRender(t *testing.T) {
	tl, rt, ms := malagaNight()
	lines := Render(Build(tl, rt, ms, 0), 12)

	if len(lines) != 13 {
		t.Fatalf("len(lines) = %d, want 13", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 25 {
			t.Errorf("line %d has %d runes, want 25", i, n)
		}
	}

	all := strings.Join(lines, "\n")
	for _, want := range []string{"23:38", string(GlyphMoon), string(GlyphHand), string(GlyphRoman), string(GlyphNight), string(GlyphDay)} {
		if !strings.Contains(all, want) {
			t.Errorf("rendered face missing %q:\n%s", want, all)
		}
	}
	if !strings.Contains(lines[6], "23:38") {
		t.Errorf("label not on the centre row: %q", lines[6])
	}
}

func TestRender_MinimumSize(t *testing.T) {
	tl, rt, ms := malagaNight()
	if got := len(Render(Build(tl, rt, ms, 0), 1)); got != 5 {
		t.Errorf("len(Render(size=1)) = %d, want 5", got)
	}
}
