package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/ui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive clock face",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rootOpts.env)
		},
	}
}

func runTUI(cmd *cobra.Command, env *Env) error {
	ctx, cancel := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs are discarded while the TUI owns the screen.
	env.Logger.SetOutput(io.Discard)

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = env.Config.RefreshInterval
	stateMgr := state.NewManager(stateCfg)

	refresh := make(chan struct{}, 1)
	model := ui.New(stateMgr, ui.Options{
		Location: env.Loc,
		Refresh: func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Start compute loop in background
	go runComputeLoop(ctx, env, stateMgr, p, refresh)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// sender is the part of tea.Program the compute loop needs.
type sender interface {
	Send(msg tea.Msg)
}

func runComputeLoop(ctx context.Context, env *Env, stateMgr *state.Manager, p sender, refresh <-chan struct{}) {
	computer := env.Computer()

	// Do initial compute immediately
	doCompute(env, computer, stateMgr, p)

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			env.Logger.Debug("compute loop shutting down")
			return
		case <-ticker.C:
			doCompute(env, computer, stateMgr, p)
		case <-refresh:
			doCompute(env, computer, stateMgr, p)
		}
	}
}

func doCompute(env *Env, computer *state.Computer, stateMgr *state.Manager, p sender) {
	start := time.Now()
	r, err := computer.Compute(env.Instant(stateMgr.Offset()), env.Observer)
	dur := time.Since(start)

	if err != nil {
		env.Logger.Error("compute failed: %v", err)
		stateMgr.Update(nil, dur, err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}

	env.Logger.Debug("reading %s in %v", r.Roman, dur)
	stateMgr.Update(r, dur, nil)
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
}
