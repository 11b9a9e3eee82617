package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-sunclock/internal/clockface"
)

// FaceOptions holds flags for the face command.
type FaceOptions struct {
	*RootOptions
	Size int
}

// NewFaceCommand creates the face command.
func NewFaceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FaceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "face",
		Short: "Draw the clock face as plain text",
		Long: `Draw the 24-hour dial with the day and night arcs, the twelve Roman hour
lines of each, and the hand at the current instant.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := rootOpts.env
			ms := env.Instant(0)
			r, err := env.Computer().Compute(ms, env.Observer)
			if err != nil {
				return WrapExitError(ExitFailure, "compute reading", err)
			}

			_, off := time.UnixMilli(ms).In(env.Loc).Zone()
			face := clockface.Build(r.Timeline, r.Roman, ms, off/60)

			out := cmd.OutOrStdout()
			for _, line := range clockface.Render(face, opts.Size) {
				fmt.Fprintln(out, strings.TrimRight(line, " "))
			}
			fmt.Fprintf(out, "%s %s, local %s\n", r.Roman, r.Roman.DayType, face.LocalLabel)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "s", 21, "dial height in rows")

	return cmd
}
