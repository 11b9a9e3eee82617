package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/state"
)

const (
	// Vertical range of the sky canvas in degrees
	skyMinEl = -30.0
	skyMaxEl = 90.0

	glyphSunPath  = '·'
	glyphMoonPath = '∙'

	colorSkyBg    = "236"
	colorHorizon  = "60"
	colorSunPath  = "#8A6D1F"
	colorMoonPath = "#4A5A8A"
	colorMoon     = "#C8D0FF"

	// SparklineWidth is the width of the elevation sparklines.
	SparklineWidth = 48

	// eventRows is how many recent events the sky view lists.
	eventRows = 4
)

var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline gradient endpoints (RGB).
var (
	elevColorLow  = [3]uint8{0x2a, 0x2f, 0x5a}
	elevColorMid  = [3]uint8{0xe8, 0x63, 0x7a}
	elevColorHigh = [3]uint8{0xf5, 0xc5, 0x42}
)

// SkyViewModel plots the Sun and Moon over the observer's horizon.
type SkyViewModel struct {
	width  int
	height int
	loc    *time.Location

	snapshot state.Snapshot
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{loc: time.UTC}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// SetLocation sets the zone for time labels.
func (m SkyViewModel) SetLocation(loc *time.Location) SkyViewModel {
	m.loc = loc
	return m
}

// UpdateData updates with new data snapshot.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	m.snapshot = snapshot
	return m
}

// View renders the canvas, the traces and the event log.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	r := m.snapshot.Reading
	if r == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("  Waiting for first reading...")
	}

	// Reserve lines for the body rows, sparklines and events
	canvasHeight := m.height - 6 - eventRows
	if canvasHeight < 5 {
		canvasHeight = 5
	}

	var b strings.Builder
	b.WriteString(m.renderSkyCanvas(m.width-2, canvasHeight))
	b.WriteString("\n")
	b.WriteString(m.renderBodyLine("Sun  ", r.Sun, r.SunTrace, r.Instant))
	b.WriteString("\n")
	b.WriteString(m.renderBodyLine("Moon ", r.Moon, r.MoonTrace, r.Instant))
	b.WriteString("\n")
	b.WriteString(m.renderMoonPhase(r))
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	return b.String()
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = colorSkyBg
		}
	}

	put := func(az, el float64, ch rune, color lipgloss.Color) {
		x, y, ok := projectSky(az, el, width, height)
		if ok {
			canvas[y][x] = ch
			colors[y][x] = color
		}
	}

	// Horizon line with cardinal points
	_, horizonY, _ := projectSky(0, 0, width, height)
	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = colorHorizon
	}
	for _, c := range []struct {
		label rune
		az    float64
	}{{'N', 0}, {'E', 90}, {'S', 180}, {'W', 270}} {
		put(c.az, 0, c.label, "252")
	}

	r := m.snapshot.Reading
	for _, s := range r.MoonTrace.Samples {
		put(s.AzDeg, s.ElDeg, glyphMoonPath, colorMoonPath)
	}
	for _, s := range r.SunTrace.Samples {
		put(s.AzDeg, s.ElDeg, glyphSunPath, colorSunPath)
	}
	put(r.Moon.AzDeg, r.Moon.ElDeg, '☾', colorMoon)
	put(r.Sun.AzDeg, r.Sun.ElDeg, '☀', colorDay)

	var b strings.Builder
	for y := 0; y < height; y++ {
		b.WriteString(" ")
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// projectSky maps azimuth 0..360 across the width and elevation skyMaxEl..skyMinEl
// down the height.
func projectSky(az, el float64, width, height int) (int, int, bool) {
	if width <= 0 || height <= 0 || el < skyMinEl || el > skyMaxEl {
		return 0, 0, false
	}
	az = normalizeAngle(az-180) + 180 // 0..360
	x := int(az / 360 * float64(width))
	if x >= width {
		x = width - 1
	}
	y := int((skyMaxEl - el) / (skyMaxEl - skyMinEl) * float64(height-1))
	return x, y, true
}

func (m SkyViewModel) renderBodyLine(name string, c astro.SkyCoord, trace astro.ElevationTrace, now int64) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	line := labelStyle.Render(name) +
		valueStyle.Render(fmt.Sprintf("az %6.2f°  el %6.2f°  ", c.AzDeg, c.ElDeg)) +
		tierStyle(astro.GetElevationTier(c.ElDeg)).Render(fmt.Sprintf("%-8s", tierName(astro.GetElevationTier(c.ElDeg)))) + " "

	line += renderSparkline(trace)
	if len(trace.Samples) > 0 {
		at, peak := trace.Culmination()
		line += dimStyle.Render(fmt.Sprintf(" peak %.0f° at %s", peak, time.UnixMilli(at).In(m.loc).Format("15:04")))
	}
	if s, ok := trace.Current(now); ok {
		line += dimStyle.Render(fmt.Sprintf(" now %.0f°", s.ElDeg))
	}
	return line
}

func (m SkyViewModel) renderMoonPhase(r *state.Reading) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	phase := "waning"
	if r.Positions.Moon.Waxing {
		phase = "waxing"
	}
	text := fmt.Sprintf("Phase %3.0f%% illuminated, %s   ", r.Positions.Moon.Illumination*100, phase)

	switch rs := r.MoonRiseSet.(type) {
	case astro.NormalDayAndNight:
		text += fmt.Sprintf("moonrise %s  moonset %s",
			time.UnixMilli(rs.Rise).In(m.loc).Format("15:04"),
			time.UnixMilli(rs.Set).In(m.loc).Format("15:04"))
	case astro.CircumpolarDay:
		text += "Moon up all day"
	case astro.CircumpolarNight:
		text += "Moon down all day"
	}
	return dimStyle.Render(text)
}

func (m SkyViewModel) renderEvents() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	events := m.snapshot.Events
	if len(events) > eventRows {
		events = events[len(events)-eventRows:]
	}
	if len(events) == 0 {
		return dimStyle.Render("No transitions observed yet")
	}

	lines := []string{titleStyle.Render("Recent events")}
	for _, e := range events {
		text := fmt.Sprintf("%s  %-14s", e.Timestamp.In(m.loc).Format("Jan 02 15:04"), e.Type)
		if e.Type == state.EventDayTypeChange {
			text += fmt.Sprintf(" %s → %s", e.OldType, e.NewType)
		}
		lines = append(lines, dimStyle.Render(text))
	}
	return strings.Join(lines, "\n")
}

// renderSparkline draws the above-horizon part of a trace as block characters.
func renderSparkline(trace astro.ElevationTrace) string {
	samples := resampleElevation(trace.Samples, SparklineWidth)
	if len(samples) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("no trace")
	}

	var sb strings.Builder
	for _, elev := range samples {
		if elev < 0 {
			sb.WriteRune(' ')
			continue
		}
		if elev > 90 {
			elev = 90
		}
		t := elev / 90.0

		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, b := interpolateElevColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}
	return sb.String()
}

// interpolateElevColor returns RGB color for elevation value t in [0, 1].
// Gradient: low (night blue) → mid (rose) → high (gold).
func interpolateElevColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	from, to, s := elevColorLow, elevColorMid, t*2
	if t >= 0.5 {
		from, to, s = elevColorMid, elevColorHigh, (t-0.5)*2
	}

	mix := func(i int) uint8 {
		return uint8(float64(from[i])*(1-s) + float64(to[i])*s)
	}
	return mix(0), mix(1), mix(2)
}

// resampleElevation resamples elevation samples to a fixed number of buckets.
func resampleElevation(samples []astro.ElevationSample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	samplesPerBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * samplesPerBucket)
		endIdx := int(float64(i+1) * samplesPerBucket)
		if endIdx > len(samples) {
			endIdx = len(samples)
		}
		if startIdx >= endIdx {
			startIdx = endIdx - 1
		}
		if startIdx < 0 {
			startIdx = 0
		}

		sum := 0.0
		count := 0
		for j := startIdx; j < endIdx; j++ {
			sum += samples[j].ElDeg
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}

func tierName(t astro.ElevationTier) string {
	switch t {
	case astro.TierBelow:
		return "below"
	case astro.TierTwilight:
		return "twilight"
	case astro.TierLow:
		return "low"
	default:
		return "high"
	}
}

func tierStyle(t astro.ElevationTier) lipgloss.Style {
	switch t {
	case astro.TierBelow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	case astro.TierTwilight:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRoman))
	case astro.TierLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F0A050"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorDay))
	}
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}
