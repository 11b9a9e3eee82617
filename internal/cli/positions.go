package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/state"
)

// NewPositionsCommand creates the positions command.
func NewPositionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Print Earth, Sun and Moon model outputs",
		Long: `Print the orbital elements and the apparent Sun and Moon positions used by
the clock, in equatorial and horizontal coordinates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := rootOpts.env
			r, err := env.Computer().Compute(env.Instant(0), env.Observer)
			if err != nil {
				return WrapExitError(ExitFailure, "compute positions", err)
			}
			writePositions(cmd.OutOrStdout(), r, env.Loc)
			return nil
		},
	}
}

func writePositions(w io.Writer, r *state.Reading, loc *time.Location) {
	p := r.Positions
	fmt.Fprintf(w, "Positions @ %s (JD %.5f)\n", time.UnixMilli(r.Instant).In(loc).Format("2006-01-02 15:04:05 MST"), p.Moment.JulianDate)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-12s e=%.7f  obliquity %.5f°\n", "Earth", p.Earth.Eccentricity, p.Earth.ObliquityDeg)
	fmt.Fprintf(w, "%-12s λ %.5f°  r %.6f AU\n", "Sun", p.Sun.ApparentLongitudeDeg, p.Sun.RadiusAU)
	fmt.Fprintf(w, "%-12s %s\n", "", formatSky(r.Sun))
	fmt.Fprintf(w, "%-12s λ %.5f°  β %.5f°  Δ %.0f km  π %.4f°\n", "Moon",
		p.Moon.LongitudeDeg, p.Moon.LatitudeDeg, p.Moon.DistanceKm, p.Moon.ParallaxDeg)
	fmt.Fprintf(w, "%-12s %s\n", "", formatSky(r.Moon))

	phase := "waning"
	if p.Moon.Waxing {
		phase = "waxing"
	}
	fmt.Fprintf(w, "%-12s %.1f%% illuminated, %s\n", "Phase", p.Moon.Illumination*100, phase)
	fmt.Fprintf(w, "%-12s lat %.4f°  lon %.4f°  alt %.0f m\n", "Observer", r.Observer.LatDeg, r.Observer.LonDeg, r.Observer.AltM)
}

func formatSky(c astro.SkyCoord) string {
	return fmt.Sprintf("ra %8.4f°  dec %8.4f°  az %8.4f°  el %8.4f°", c.RAdeg, c.DecDeg, c.AzDeg, c.ElDeg)
}
