package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-sunclock/internal/export"
	"github.com/litescript/ls-sunclock/internal/state"
)

const minWatch = time.Second

// NowOptions holds flags for the now command.
type NowOptions struct {
	*RootOptions
	JSON  bool
	Line  bool
	Watch time.Duration
}

// NewNowCommand creates the now command.
func NewNowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current Roman time",
		Long: `Print the Roman time, the surrounding sunrise and sunset, and the Sun and
Moon positions for the observer.

Example:
  ls-sunclock now --location budapest
  ls-sunclock now --lat 69.65 --lon 18.96 --at 2022-06-21 --json
  ls-sunclock now --line --watch 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNow(cmd, rootOpts.env, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "write the reading as JSON")
	cmd.Flags().BoolVar(&opts.Line, "line", false, "write a single status line")
	cmd.Flags().DurationVarP(&opts.Watch, "watch", "w", 0, "repeat at interval (e.g. 30s)")
	cmd.MarkFlagsMutuallyExclusive("json", "line")

	return cmd
}

func runNow(cmd *cobra.Command, env *Env, opts *NowOptions) error {
	computer := env.Computer()
	mgr := state.NewManager(state.Config{MaxHistoryLen: 1, MaxEvents: 10, RefreshInterval: opts.Watch})
	out := cmd.OutOrStdout()

	outputOnce := func() error {
		before := mgr.Snapshot().Events
		start := time.Now()
		r, err := computer.Compute(env.Instant(0), env.Observer)
		mgr.Update(r, time.Since(start), err)
		if err != nil {
			return WrapExitError(ExitFailure, "compute reading", err)
		}

		for _, e := range eventsSince(before, mgr.Snapshot().Events) {
			env.Logger.Info("%s at %s", e.Type, e.Timestamp.In(env.Loc).Format("15:04:05"))
		}

		switch {
		case opts.JSON:
			if err := export.NewSnapshotExport(r).WriteJSON(out); err != nil {
				return fmt.Errorf("write JSON: %w", err)
			}
		case opts.Line:
			export.WriteNowLine(out, r, env.Loc)
		default:
			export.WriteSummary(out, r, env.Loc)
		}
		return nil
	}

	// Single run
	if opts.Watch == 0 {
		return outputOnce()
	}
	if opts.Watch < minWatch {
		opts.Watch = minWatch
	}
	if !env.At.IsZero() {
		env.Logger.Warn("--watch with --at repeats the same instant")
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		env.Logger.Error("%v", err)
	}

	ticker := time.NewTicker(opts.Watch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			env.Logger.Debug("watch loop shutting down")
			return nil
		case <-ticker.C:
			if !opts.Line && !opts.JSON {
				fmt.Fprintln(out) // Blank line between summaries
			}
			if err := outputOnce(); err != nil {
				env.Logger.Error("%v", err)
			}
		}
	}
}

// eventsSince returns the tail of after that is not in before.
func eventsSince(before, after []state.Event) []state.Event {
	if len(before) == 0 {
		return after
	}
	last := before[len(before)-1]
	for i := len(after) - 1; i >= 0; i-- {
		if after[i] == last {
			return after[i+1:]
		}
	}
	return after
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
