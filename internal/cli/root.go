// Package cli implements the ls-sunclock command line.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/config"
	"github.com/litescript/ls-sunclock/internal/logging"
	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/sunmodel"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Lat        float64
	Lon        float64
	Alt        float64
	Location   string
	ConfigPath string
	Model      string
	LogLevel   string
	TZ         string
	At         string

	// Now overrides the wall clock (for testing). Nil means time.Now.
	Now func() time.Time

	env *Env
}

// Env is the resolved configuration shared by subcommands.
type Env struct {
	Config   config.Config
	Observer astro.Observer
	Model    sunmodel.Model
	Loc      *time.Location
	Logger   *logging.Logger

	// At is the fixed instant from --at, zero when live.
	At time.Time

	now func() time.Time
}

// Instant returns the epoch to compute for: --at when given, else the wall
// clock shifted by offset.
func (e *Env) Instant(offset time.Duration) int64 {
	if !e.At.IsZero() {
		return e.At.Add(offset).UnixMilli()
	}
	return e.now().Add(offset).UnixMilli()
}

// Computer returns a reading computer for the selected model that traces
// through the logger.
func (e *Env) Computer() *state.Computer {
	return state.NewComputer(e.Model, timeline.WithTracer(e.Logger.With("model", e.Model.Name())))
}

// NewRootCommand creates the root command for the ls-sunclock CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ls-sunclock",
		Short: "Roman sun clock for the terminal",
		Long: `Roman time splits daylight into twelve equal hours from sunrise to sunset
and the night into twelve more, so hours stretch and shrink with the seasons.

Without a subcommand, ls-sunclock starts the clock face TUI when stdout is a
terminal and prints the current reading otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd, opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid options", err)
			}
			opts.env = env
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(cmd) {
				return runTUI(cmd, opts.env)
			}
			return runNow(cmd, opts.env, &NowOptions{})
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.Float64Var(&opts.Lat, "lat", 0, "observer latitude in degrees, north positive")
	pf.Float64Var(&opts.Lon, "lon", 0, "observer longitude in degrees, east positive")
	pf.Float64Var(&opts.Alt, "alt", 0, "observer elevation in meters")
	pf.StringVarP(&opts.Location, "location", "l", "", "named location preset from the config file")
	pf.StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVarP(&opts.Model, "model", "m", "", "day solver ("+strings.Join(sunmodel.Names(), "|")+")")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.TZ, "tz", "", "timezone for wall clock output (IANA name, Local or UTC)")
	pf.StringVar(&opts.At, "at", "", "compute for a fixed instant (RFC3339, \"2006-01-02 15:04\" UTC or Unix ms)")

	// Add subcommands
	cmd.AddCommand(NewNowCommand(opts))
	cmd.AddCommand(NewPositionsCommand(opts))
	cmd.AddCommand(NewRiseSetCommand(opts))
	cmd.AddCommand(NewFaceCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// resolveEnv merges the config file with the flags that were set.
func resolveEnv(cmd *cobra.Command, opts *RootOptions) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = opts.Model
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	if flags.Changed("tz") {
		cfg.Timezone = opts.TZ
	}

	logger := logging.New(cfg.Level())
	logger.SetOutput(cmd.ErrOrStderr())

	obs, err := resolveObserver(cmd, opts, cfg)
	if err != nil {
		return nil, err
	}

	model, err := sunmodel.New(cfg.Model)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:   cfg,
		Observer: obs,
		Model:    model,
		Loc:      loc,
		Logger:   logger,
		now:      opts.Now,
	}
	if env.now == nil {
		env.now = time.Now
	}

	if opts.At != "" {
		at, err := parseInstant(opts.At)
		if err != nil {
			return nil, err
		}
		env.At = at
	}

	logger.Debug("observer %s lat=%.4f lon=%.4f alt=%.0f model=%s", obs.Name, obs.LatDeg, obs.LonDeg, obs.AltM, model.Name())
	return env, nil
}

// resolveObserver picks the observer: --lat/--lon, then --location, then the
// configured default preset.
func resolveObserver(cmd *cobra.Command, opts *RootOptions, cfg config.Config) (astro.Observer, error) {
	flags := cmd.Flags()
	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")

	switch {
	case latSet || lonSet:
		if !latSet || !lonSet {
			return astro.Observer{}, fmt.Errorf("--lat and --lon must be given together")
		}
		if opts.Location != "" {
			return astro.Observer{}, fmt.Errorf("--location cannot be combined with --lat/--lon")
		}
		obs := astro.Observer{LatDeg: opts.Lat, LonDeg: opts.Lon, AltM: opts.Alt}
		if err := obs.Validate(); err != nil {
			return astro.Observer{}, err
		}
		return obs, nil
	default:
		obs, err := cfg.Resolve(opts.Location)
		if err != nil {
			return astro.Observer{}, err
		}
		if flags.Changed("alt") {
			obs.AltM = opts.Alt
		}
		return obs, nil
	}
}

// parseInstant accepts RFC3339, a UTC "2006-01-02 15:04[:05]" stamp, a date,
// or Unix milliseconds.
func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse --at %q", s)
}

// isTerminal reports whether the command writes to a terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
