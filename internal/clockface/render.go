package clockface

import "math"

// Canvas glyphs.
const (
	GlyphDay       = '▓'
	GlyphNight     = '░'
	GlyphHourMajor = '◆'
	GlyphHourMinor = '·'
	GlyphRoman     = '┼'
	GlyphHand      = '◉'
	GlyphSun       = '☀'
	GlyphMoon      = '☾'
)

const (
	ringRadius  = 1.0
	tickRadius  = 0.72
	handRadius  = 0.86
	minimumSize = 4
)

// Render draws the face on a canvas size rows high. Columns are doubled to
// keep the dial round in a terminal.
func Render(f Face, size int) []string {
	if size < minimumSize {
		size = minimumSize
	}
	radius := size / 2
	h := 2*radius + 1
	w := 4*radius + 1

	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	set := func(angle, r float64, ch rune) {
		p := PointOn(angle, r)
		x := 2*radius + int(math.Round(p.X*float64(2*radius)))
		y := radius + int(math.Round(p.Y*float64(radius)))
		if x >= 0 && x < w && y >= 0 && y < h {
			grid[y][x] = ch
		}
	}

	steps := 16 * size
	for i := 0; i < steps; i++ {
		a := fullCircle * float64(i) / float64(steps)
		ch := GlyphNight
		if f.Day.Contains(a) {
			ch = GlyphDay
		}
		set(a, ringRadius, ch)
	}
	for _, t := range f.DayLines {
		set(t.Angle, ringRadius, GlyphRoman)
	}
	for _, t := range f.NightLines {
		set(t.Angle, ringRadius, GlyphRoman)
	}
	for _, t := range f.HourTicks {
		ch := GlyphHourMinor
		if t.Major {
			ch = GlyphHourMajor
		}
		set(t.Angle, tickRadius, ch)
	}
	set(f.HandAngle, handRadius, GlyphHand)

	icon := GlyphMoon
	if f.Icon == IconSun {
		icon = GlyphSun
	}
	if radius >= 3 {
		grid[radius-1][2*radius] = icon
	}
	writeCentered(grid[radius], f.Label)
	if radius >= 3 {
		writeCentered(grid[radius+1], f.LocalLabel)
	}

	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

func writeCentered(row []rune, s string) {
	rs := []rune(s)
	start := (len(row) - len(rs)) / 2
	for i, r := range rs {
		if x := start + i; x >= 0 && x < len(row) {
			row[x] = r
		}
	}
}
