package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/clockface"
	"github.com/litescript/ls-sunclock/internal/config"
	"github.com/litescript/ls-sunclock/internal/logging"
	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/sunmodel"
	"github.com/litescript/ls-sunclock/internal/ui"
)

// midnightMalaga is 2022-06-10T00:00:00Z.
const midnightMalaga = "2022-06-10T00:00:00Z"

// run executes the CLI with an empty config file and returns stdout.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))

	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--tz", "UTC"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ls-sunclock", cmd.Use)
	assert.Contains(t, cmd.Long, "twelve equal hours")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"now", "positions", "riseset", "face", "tui", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"lat", "lon", "alt", "location", "config", "model", "log-level", "tz", "at"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "l", cmd.PersistentFlags().Lookup("location").Shorthand)
}

func TestNow_Line(t *testing.T) {
	out, _, err := run(t, "--location", "malaga", "--at", midnightMalaga, "now", "--line")
	require.NoError(t, err)
	assert.Regexp(t, `^23:3\d normal night, sunrise at 0[45]:\d\d, minute 4[67]\.\ds\n$`, out)
}

func TestNow_JSON(t *testing.T) {
	out, _, err := run(t, "--lat", "36.6952469", "--lon", "-4.4538953", "--at", midnightMalaga, "now", "--json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "series", decoded["model"])
	assert.Equal(t, "normal night", decoded["roman"].(map[string]interface{})["day_type"])
	assert.Equal(t, "2022-06-10T00:00:00Z", decoded["instant"])
}

func TestNow_ModelFlag(t *testing.T) {
	for _, model := range sunmodel.Names() {
		t.Run(model, func(t *testing.T) {
			out, _, err := run(t, "--model", model, "--at", midnightMalaga, "now", "--json")
			require.NoError(t, err)
			assert.Contains(t, out, `"model": "`+model+`"`)
		})
	}
}

func TestNow_JSONAndLineExclusive(t *testing.T) {
	_, _, err := run(t, "now", "--json", "--line")
	assert.Error(t, err)
}

func TestRoot_DefaultsToSummaryWhenNotTerminal(t *testing.T) {
	out, _, err := run(t, "--at", midnightMalaga)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Roman time 23:3"), "got %q", out)
	assert.Contains(t, out, "malaga")
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"unknown location", []string{"--location", "atlantis", "now"}, config.ErrUnknownLocation},
		{"latitude out of range", []string{"--lat", "91", "--lon", "0", "now"}, astro.ErrInvalidInput},
		{"unknown model", []string{"--model", "sundial", "now"}, sunmodel.ErrUnknownModel},
		{"lat without lon", []string{"--lat", "10", "now"}, nil},
		{"location with coordinates", []string{"--location", "malaga", "--lat", "1", "--lon", "1", "now"}, nil},
		{"bad instant", []string{"--at", "yesterday-ish", "now"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "error %v should wrap %v", err, tt.is)
			}
		})
	}
}

func TestRiseSet(t *testing.T) {
	out, _, err := run(t, "--at", midnightMalaga, "riseset", "--body", "both", "--days", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+6)
	assert.True(t, strings.HasPrefix(lines[2], "2022-06-10  Sun"), "got %q", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "2022-06-10  Moon"), "got %q", lines[3])
	assert.True(t, strings.HasPrefix(lines[7], "2022-06-12  Moon"), "got %q", lines[7])
}

func TestRiseSet_PolarNight(t *testing.T) {
	out, _, err := run(t, "--location", "tromso", "--at", "2022-12-21", "riseset", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "down all day")
}

func TestRiseSet_InvalidFlags(t *testing.T) {
	_, _, err := run(t, "riseset", "--body", "mars")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = run(t, "riseset", "--days", "0")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFace(t *testing.T) {
	out, _, err := run(t, "--at", midnightMalaga, "face", "--size", "11")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 11+1)
	assert.Contains(t, out, string(clockface.GlyphHand))
	assert.Contains(t, out, string(clockface.GlyphMoon))
	assert.Regexp(t, `23:3\d normal night, local 00:00`, lines[len(lines)-1])
}

func TestPositions(t *testing.T) {
	out, _, err := run(t, "--at", midnightMalaga, "positions")
	require.NoError(t, err)
	for _, want := range []string{"Positions @ 2022-06-10 00:00:00 UTC", "Earth", "Sun", "Moon", "illuminated"} {
		assert.Contains(t, out, want)
	}
}

func TestVersion(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version", "--config", "/nonexistent/config.yaml"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "ls-sunclock v"))
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "debug", "--at", midnightMalaga, "now", "--line")
	require.NoError(t, err)
	assert.Contains(t, stderr, "observer malaga")
}

func TestParseInstant(t *testing.T) {
	want := time.Date(2022, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []string{
		"2022-06-10T00:00:00Z",
		"2022-06-10T02:00:00+02:00",
		"2022-06-10 00:00",
		"2022-06-10 00:00:00",
		"2022-06-10",
		"1654819200000",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := parseInstant(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	_, err := parseInstant("soon")
	assert.Error(t, err)
}

func TestEventsSince(t *testing.T) {
	a := state.Event{Type: state.EventSunrise, Timestamp: time.UnixMilli(1000).UTC()}
	b := state.Event{Type: state.EventSunset, Timestamp: time.UnixMilli(2000).UTC()}
	c := state.Event{Type: state.EventSunrise, Timestamp: time.UnixMilli(3000).UTC()}

	assert.Equal(t, []state.Event{a}, eventsSince(nil, []state.Event{a}))
	assert.Empty(t, eventsSince([]state.Event{a, b}, []state.Event{a, b}))
	assert.Equal(t, []state.Event{c}, eventsSince([]state.Event{a, b}, []state.Event{b, c}))
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestComputeLoop(t *testing.T) {
	model, err := sunmodel.New("series")
	require.NoError(t, err)
	env := &Env{
		Config:   config.Default(),
		Observer: astro.Observer{LatDeg: 36.6952469, LonDeg: -4.4538953, Name: "malaga"},
		Model:    model,
		Loc:      time.UTC,
		Logger:   logging.Discard(),
		now:      func() time.Time { return time.Date(2022, 6, 10, 0, 0, 0, 0, time.UTC) },
	}

	mgr := state.NewManager(state.Config{MaxHistoryLen: 10, MaxEvents: 10, RefreshInterval: time.Hour})
	msgs := make(chanSender, 4)
	refresh := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		runComputeLoop(ctx, env, mgr, msgs, refresh)
		close(done)
	}()

	first := (<-msgs).(ui.DataUpdateMsg)
	require.NotNil(t, first.Snapshot.Reading)
	assert.Equal(t, int64(1654819200000), first.Snapshot.Reading.Instant)

	// A shifted clock is picked up on refresh.
	mgr.SetOffset(6 * time.Hour)
	refresh <- struct{}{}
	second := (<-msgs).(ui.DataUpdateMsg)
	assert.Equal(t, int64(1654819200000+6*3600000), second.Snapshot.Reading.Instant)
	assert.True(t, second.Snapshot.Reading.Timeline.DayType.IsDay())

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("compute loop did not stop")
	}
}
