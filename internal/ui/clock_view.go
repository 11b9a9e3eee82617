package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sunclock/internal/clockface"
	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

const (
	colorGold  = "229"
	colorDay   = "#F5C542"
	colorNight = "#3B4CCA"
	colorRoman = "#E8637A"
	colorHand  = "255"
	colorTick  = "244"

	// Dial height limits in rows
	minDialSize = 9
	maxDialSize = 25
)

// ClockViewModel shows the dial and the Roman reading.
type ClockViewModel struct {
	width  int
	height int
	loc    *time.Location

	snapshot state.Snapshot
}

// NewClockViewModel creates a new clock view model.
func NewClockViewModel() ClockViewModel {
	return ClockViewModel{loc: time.UTC}
}

// SetSize updates the viewport size.
func (m ClockViewModel) SetSize(width, height int) ClockViewModel {
	m.width = width
	m.height = height
	return m
}

// SetLocation sets the zone for wall clock labels.
func (m ClockViewModel) SetLocation(loc *time.Location) ClockViewModel {
	m.loc = loc
	return m
}

// UpdateData updates with new data snapshot.
func (m ClockViewModel) UpdateData(snapshot state.Snapshot) ClockViewModel {
	m.snapshot = snapshot
	return m
}

// View renders the dial next to the details panel.
func (m ClockViewModel) View() string {
	r := m.snapshot.Reading
	if r == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("  Waiting for first reading...")
	}

	face := clockface.Build(r.Timeline, r.Roman, r.Instant, zoneOffsetMinutes(r.Instant, m.loc))
	dial := colorizeDial(clockface.Render(face, m.dialSize()))

	return lipgloss.JoinHorizontal(lipgloss.Top, "  ", strings.Join(dial, "\n"), "    ", m.renderDetails())
}

// dialSize picks the dial height from the available rows.
func (m ClockViewModel) dialSize() int {
	size := m.height - 1
	if size > maxDialSize {
		size = maxDialSize
	}
	if size < minDialSize {
		size = minDialSize
	}
	return size
}

func (m ClockViewModel) renderDetails() string {
	r := m.snapshot.Reading
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGold))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("%s  %s", r.Roman, r.Roman.DayType)))
	lines = append(lines, "")
	lines = append(lines, row("Location", fmt.Sprintf("%s (%.4f°, %.4f°)", observerName(r.Observer.Name), r.Observer.LatDeg, r.Observer.LonDeg)))
	lines = append(lines, row("Wall clock", time.UnixMilli(r.Instant).In(m.loc).Format("2006-01-02 15:04:05 MST")))
	lines = append(lines, row("Last", m.formatTransition(r.Timeline.Last)))
	lines = append(lines, row("Next", m.formatTransition(r.Timeline.Next)))

	hour := time.Duration(r.Roman.HourLength() * float64(time.Second)).Round(time.Second)
	lines = append(lines, row("Hour", fmt.Sprintf("%s (minute %.3f s)", hour, r.Roman.MinuteLength)))
	progress := "Progress"
	if !r.Roman.HasLast || !r.Roman.HasNext {
		progress = "UTC day"
	}
	lines = append(lines, row(progress, renderProgress(r.Instant, r.Roman.LastChange, r.Roman.NextChange, 24)))

	if r.Timeline.Next != nil {
		left := time.Duration(r.Timeline.Next.Epoch-r.Instant) * time.Millisecond
		lines = append(lines, row("Until", fmt.Sprintf("%s %s", r.Timeline.Next.Kind, left.Round(time.Minute))))
	}

	return strings.Join(lines, "\n")
}

func (m ClockViewModel) formatTransition(p *timeline.TransitionPoint) string {
	if p == nil {
		return "none within a day"
	}
	return fmt.Sprintf("%-7s %s", p.Kind, time.UnixMilli(p.Epoch).In(m.loc).Format("Jan 02 15:04"))
}

// renderProgress draws a bar for the share of the current half day elapsed.
func renderProgress(now, from, to int64, width int) string {
	frac := 0.0
	if to > from {
		frac = float64(now-from) / float64(to-from)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// colorizeDial styles each glyph of a rendered dial.
func colorizeDial(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		var b strings.Builder
		for _, r := range line {
			if color, ok := glyphColor(r); ok {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		out[i] = b.String()
	}
	return out
}

func glyphColor(r rune) (string, bool) {
	switch r {
	case clockface.GlyphDay, clockface.GlyphSun:
		return colorDay, true
	case clockface.GlyphNight, clockface.GlyphMoon:
		return colorNight, true
	case clockface.GlyphRoman:
		return colorRoman, true
	case clockface.GlyphHand:
		return colorHand, true
	case clockface.GlyphHourMajor, clockface.GlyphHourMinor:
		return colorTick, true
	default:
		return "", false
	}
}

// zoneOffsetMinutes returns the offset east of UTC of loc at ms.
func zoneOffsetMinutes(ms int64, loc *time.Location) int {
	if loc == nil {
		return 0
	}
	_, off := time.UnixMilli(ms).In(loc).Zone()
	return off / 60
}

func observerName(name string) string {
	if name == "" {
		return "custom"
	}
	return name
}
