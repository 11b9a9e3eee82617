package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/export"
	"github.com/litescript/ls-sunclock/internal/sunmodel"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

const maxRiseSetDays = 366

// RiseSetOptions holds flags for the riseset command.
type RiseSetOptions struct {
	*RootOptions
	Body string
	Days int
}

// NewRiseSetCommand creates the riseset command.
func NewRiseSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RiseSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "riseset",
		Short: "Print upcoming rise and set times",
		Long: `Print rise and set times for the Sun, the Moon or both, one row per UTC day
starting with the day of the instant.

Example:
  ls-sunclock riseset --days 14
  ls-sunclock riseset --body moon --location tromso`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := rootOpts.env
			rows, err := riseSetRows(env, opts.Body, opts.Days)
			if err != nil {
				return err
			}
			export.WriteRiseSetTable(cmd.OutOrStdout(), rows, env.Loc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Body, "body", "b", "sun", "body to solve (sun|moon|both)")
	cmd.Flags().IntVarP(&opts.Days, "days", "n", 7, "number of UTC days")

	return cmd
}

func riseSetRows(env *Env, body string, days int) ([]export.RiseSetRow, error) {
	if days < 1 || days > maxRiseSetDays {
		return nil, WrapExitError(ExitCommandError, "invalid --days", fmt.Errorf("must be between 1 and %d, got %d", maxRiseSetDays, days))
	}

	type solver struct {
		name string
		s    timeline.DaySolver
	}
	var solvers []solver
	switch strings.ToLower(body) {
	case "sun":
		solvers = []solver{{"Sun", env.Model}}
	case "moon":
		solvers = []solver{{"Moon", sunmodel.NewSeries(astro.MoonBody{})}}
	case "both":
		solvers = []solver{{"Sun", env.Model}, {"Moon", sunmodel.NewSeries(astro.MoonBody{})}}
	default:
		return nil, WrapExitError(ExitCommandError, "invalid --body", fmt.Errorf("%q is not sun, moon or both", body))
	}

	first := astro.DayStart(env.Instant(0))
	rows := make([]export.RiseSetRow, 0, days*len(solvers))
	for d := 0; d < days; d++ {
		dayStart := first + int64(d)*astro.DayMillis
		for _, sv := range solvers {
			res, err := sv.s.SolveDay(dayStart, env.Observer)
			if err != nil {
				return nil, WrapExitError(ExitFailure, "solve "+sv.name, err)
			}
			rows = append(rows, export.RiseSetRow{DayStart: dayStart, Body: sv.name, Result: res})
		}
	}
	env.Logger.Debug("solved %d rows for %s", len(rows), body)
	return rows, nil
}
