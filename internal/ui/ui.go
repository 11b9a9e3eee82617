// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewClock ViewMode = iota
	ViewSky
)

// shiftStep is how far [ and ] move the clock.
const shiftStep = time.Hour

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new reading is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a compute error.
	ErrorMsg struct {
		Error error
	}
)

// Options configures the root model.
type Options struct {
	// Location is the zone used for wall clock labels when not in UTC mode.
	Location *time.Location

	// Refresh asks the compute loop for an immediate reading. May be nil.
	Refresh func()
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	refresh func()

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	utc       bool
	local     *time.Location

	// Sub-models
	clock ClockViewModel
	sky   SkyViewModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		state:    stateMgr,
		refresh:  opts.Refresh,
		viewMode: ViewClock,
		local:    loc,
		clock:    NewClockViewModel(),
		sky:      NewSkyViewModel(),
	}
	return m.applyZone()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "c":
			m.viewMode = ViewClock
		case "2", "s":
			m.viewMode = ViewSky

		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "]":
			m.shift(shiftStep)
		case "[":
			m.shift(-shiftStep)
		case "0":
			m.state.SetOffset(0)
			m.statusMsg = "Live"
			m.requestRefresh()

		case "z":
			m.utc = !m.utc
			m = m.applyZone()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.clock = m.clock.SetSize(msg.Width, contentHeight)
		m.sky = m.sky.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m = m.setSnapshot(m.state.Snapshot())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m = m.setSnapshot(msg.Snapshot)

	case ErrorMsg:
		m.statusMsg = "Error: " + msg.Error.Error()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) shift(d time.Duration) {
	off := m.state.Offset() + d
	m.state.SetOffset(off)
	if off == 0 {
		m.statusMsg = "Live"
	} else {
		m.statusMsg = "Shifted " + formatOffset(off)
	}
	m.requestRefresh()
}

func (m *Model) requestRefresh() {
	if m.refresh != nil {
		m.refresh()
	}
}

func (m Model) setSnapshot(snap state.Snapshot) Model {
	m.snapshot = snap
	m.clock = m.clock.UpdateData(snap)
	m.sky = m.sky.UpdateData(snap)
	return m
}

func (m Model) applyZone() Model {
	loc := m.local
	if m.utc {
		loc = time.UTC
	}
	m.clock = m.clock.SetLocation(loc)
	m.sky = m.sky.SetLocation(loc)
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewClock:
		content = m.clock.View()
	case ViewSky:
		content = m.sky.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	title := "  ☀ LS-SUNCLOCK"
	var b strings.Builder
	b.WriteString("\n")

	runes := []rune(title)
	for col, r := range runes {
		color := gradientColor(col, len(runes))
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  twelve hours of daylight · v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient.
// Night blue -> dawn rose -> daylight gold.
func gradientColor(col, width int) string {
	xRatio := 0.0
	if width > 1 {
		xRatio = float64(col) / float64(width-1)
	}

	var r, g, b float64
	if xRatio < 0.5 {
		// Night blue (#3B4CCA) to rose (#E8637A)
		t := xRatio / 0.5
		r = 59 + t*(232-59)
		g = 76 + t*(99-76)
		b = 202 + t*(122-202)
	} else {
		// Rose to gold (#F5C542)
		t := (xRatio - 0.5) / 0.5
		r = 232 + t*(245-232)
		g = 99 + t*(197-99)
		b = 122 + t*(66-122)
	}

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Clock", "[2] Sky"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}

	zone := m.local.String()
	if m.utc {
		zone = "UTC"
	}
	return "  " + strings.Join(parts, "  ") + dimStyle.Render("   zone: "+zone)
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Reading != nil:
		status = accentStyle.Render(spinner) + dimStyle.Render(" "+m.snapshot.Reading.Model)
		if m.snapshot.ComputeDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.ComputeDuration.Round(time.Microsecond).String() + ")")
		}
		if off := m.state.Offset(); off != 0 {
			status += accentStyle.Render(" " + formatOffset(off))
		}
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" Computing...")
	}

	help := dimStyle.Render("tab: view | [ ]: ±1h | 0: live | z: UTC/local | q: quit")
	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// formatOffset renders a clock shift like "+3h" or "-1h30m".
func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Round(time.Minute)
	h, mins := d/time.Hour, (d%time.Hour)/time.Minute
	if mins == 0 {
		return fmt.Sprintf("%s%dh", sign, h)
	}
	return fmt.Sprintf("%s%dh%02dm", sign, h, mins)
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
