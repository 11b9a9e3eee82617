// Package export renders readings as JSON and plain text.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/state"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

// SnapshotExport is the JSON-serializable representation of a reading.
type SnapshotExport struct {
	Instant   time.Time      `json:"instant"`
	InstantMs int64          `json:"instant_ms"`
	Location  LocationExport `json:"location"`
	Model     string         `json:"model"`
	Roman     RomanExport    `json:"roman"`
	Timeline  TimelineExport `json:"timeline"`
	Earth     EarthExport    `json:"earth"`
	Sun       BodyExport     `json:"sun"`
	Moon      MoonExport     `json:"moon"`
}

// LocationExport is the observer.
type LocationExport struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Alt  float64 `json:"alt_m"`
}

// RomanExport is the clock reading.
type RomanExport struct {
	Clock        string  `json:"clock"`
	Hours        int     `json:"hours"`
	Minutes      int     `json:"minutes"`
	MinuteLength float64 `json:"minute_length_s"`
	DayType      string  `json:"day_type"`
}

// TimelineExport is the interval around the instant.
type TimelineExport struct {
	DayStart int64             `json:"day_start_ms"`
	Last     *TransitionExport `json:"last_change,omitempty"`
	Next     *TransitionExport `json:"next_change,omitempty"`
}

// TransitionExport is one sunrise or sunset.
type TransitionExport struct {
	Kind  string    `json:"kind"`
	Epoch int64     `json:"epoch_ms"`
	Time  time.Time `json:"time"`
}

// EarthExport carries the orbital elements in use.
type EarthExport struct {
	Eccentricity float64 `json:"eccentricity"`
	ObliquityDeg float64 `json:"obliquity_deg"`
}

// BodyExport is an apparent position in both frames.
type BodyExport struct {
	RightAscension float64 `json:"ra_deg"`
	Declination    float64 `json:"dec_deg"`
	Azimuth        float64 `json:"az_deg"`
	Elevation      float64 `json:"el_deg"`
}

// MoonExport adds lunar extras to BodyExport.
type MoonExport struct {
	BodyExport
	DistanceKm   float64 `json:"distance_km"`
	Illumination float64 `json:"illumination"`
	Waxing       bool    `json:"waxing"`
	Rise         *int64  `json:"rise_ms,omitempty"`
	Set          *int64  `json:"set_ms,omitempty"`
	Circumpolar  string  `json:"circumpolar,omitempty"`
}

// NewSnapshotExport converts a reading to its exportable form.
func NewSnapshotExport(r *state.Reading) *SnapshotExport {
	if r == nil {
		return &SnapshotExport{}
	}

	e := &SnapshotExport{
		Instant:   r.Time(),
		InstantMs: r.Instant,
		Location: LocationExport{
			Name: r.Observer.Name,
			Lat:  r.Observer.LatDeg,
			Lon:  r.Observer.LonDeg,
			Alt:  r.Observer.AltM,
		},
		Model: r.Model,
		Roman: RomanExport{
			Clock:        r.Roman.String(),
			Hours:        r.Roman.Hours,
			Minutes:      r.Roman.Minutes,
			MinuteLength: r.Roman.MinuteLength,
			DayType:      r.Roman.DayType.String(),
		},
		Timeline: TimelineExport{
			DayStart: r.Timeline.DayStart,
			Last:     transitionExport(r.Timeline.Last),
			Next:     transitionExport(r.Timeline.Next),
		},
		Earth: EarthExport{
			Eccentricity: r.Positions.Earth.Eccentricity,
			ObliquityDeg: r.Positions.Earth.ObliquityDeg,
		},
		Sun: bodyExport(r.Sun),
		Moon: MoonExport{
			BodyExport:   bodyExport(r.Moon),
			DistanceKm:   r.Positions.Moon.DistanceKm,
			Illumination: r.Positions.Moon.Illumination,
			Waxing:       r.Positions.Moon.Waxing,
		},
	}

	switch rs := r.MoonRiseSet.(type) {
	case astro.NormalDayAndNight:
		rise, set := rs.Rise, rs.Set
		e.Moon.Rise, e.Moon.Set = &rise, &set
	case astro.CircumpolarDay:
		e.Moon.Circumpolar = "up"
	case astro.CircumpolarNight:
		e.Moon.Circumpolar = "down"
	}
	return e
}

func transitionExport(p *timeline.TransitionPoint) *TransitionExport {
	if p == nil {
		return nil
	}
	return &TransitionExport{
		Kind:  p.Kind.String(),
		Epoch: p.Epoch,
		Time:  time.UnixMilli(p.Epoch).UTC(),
	}
}

func bodyExport(c astro.SkyCoord) BodyExport {
	return BodyExport{
		RightAscension: c.RAdeg,
		Declination:    c.DecDeg,
		Azimuth:        c.AzDeg,
		Elevation:      c.ElDeg,
	}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummary writes a multi-line text summary of a reading.
func WriteSummary(w io.Writer, r *state.Reading, loc *time.Location) {
	fmt.Fprintf(w, "Roman time %s (%s) @ %s\n", r.Roman, r.Roman.DayType, formatStamp(r.Instant, loc))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-10s %s (%.4f°, %.4f°, %.0f m)\n", "Location", locationName(r.Observer), r.Observer.LatDeg, r.Observer.LonDeg, r.Observer.AltM)
	fmt.Fprintf(w, "%-10s %s\n", "Model", r.Model)
	fmt.Fprintf(w, "%-10s %s\n", "Last", formatTransition(r.Timeline.Last, loc))
	fmt.Fprintf(w, "%-10s %s\n", "Next", formatTransition(r.Timeline.Next, loc))

	hour := time.Duration(r.Roman.HourLength() * float64(time.Second)).Round(time.Second)
	fmt.Fprintf(w, "%-10s %s (minute %.3f s)\n", "Hour", hour, r.Roman.MinuteLength)

	fmt.Fprintf(w, "%-10s %s\n", "Sun", formatCoord(r.Sun))
	fmt.Fprintf(w, "%-10s %s\n", "Moon", formatCoord(r.Moon))

	phase := "waning"
	if r.Positions.Moon.Waxing {
		phase = "waxing"
	}
	fmt.Fprintf(w, "%-10s %.0f%% illuminated, %s\n", "Phase", r.Positions.Moon.Illumination*100, phase)
	fmt.Fprintf(w, "%-10s %s\n", "Moonrise", formatRiseSet(r.MoonRiseSet, loc))
}

// WriteNowLine writes a single status line.
func WriteNowLine(w io.Writer, r *state.Reading, loc *time.Location) {
	if next := r.Timeline.Next; next != nil {
		fmt.Fprintf(w, "%s %s, %s at %s, minute %.1fs\n",
			r.Roman, r.Roman.DayType, next.Kind, formatClock(next.Epoch, loc), r.Roman.MinuteLength)
		return
	}
	fmt.Fprintf(w, "%s %s, minute %.1fs\n", r.Roman, r.Roman.DayType, r.Roman.MinuteLength)
}

// RiseSetRow is one body on one UTC day.
type RiseSetRow struct {
	DayStart int64
	Body     string
	Result   astro.RiseSetResult
}

// WriteRiseSetTable writes upcoming rise and set times as a table.
func WriteRiseSetTable(w io.Writer, rows []RiseSetRow, loc *time.Location) {
	fmt.Fprintf(w, "%-10s  %-5s %-5s  %-5s  %s\n", "Date", "Body", "Rise", "Set", "Note")
	fmt.Fprintln(w, strings.Repeat("─", 44))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No days requested")
		return
	}

	for _, row := range rows {
		date := time.UnixMilli(row.DayStart).UTC().Format("2006-01-02")
		rise, set, note := "--", "--", ""
		switch rs := row.Result.(type) {
		case astro.NormalDayAndNight:
			rise, set = formatClock(rs.Rise, loc), formatClock(rs.Set, loc)
			if rs.Set < rs.Rise {
				note = "sets first"
			}
		case astro.CircumpolarDay:
			note = "up all day"
		case astro.CircumpolarNight:
			note = "down all day"
		}
		line := fmt.Sprintf("%-10s  %-5s %-5s  %-5s  %s", date, truncateStr(row.Body, 5), rise, set, note)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func formatStamp(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04:05 MST")
}

func formatClock(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format("15:04")
}

func formatTransition(p *timeline.TransitionPoint, loc *time.Location) string {
	if p == nil {
		return "none within a day"
	}
	return fmt.Sprintf("%-7s %s", p.Kind, time.UnixMilli(p.Epoch).In(loc).Format("2006-01-02 15:04:05"))
}

func formatCoord(c astro.SkyCoord) string {
	return fmt.Sprintf("az %6.2f°  el %6.2f°  ra %6.2f°  dec %6.2f°", c.AzDeg, c.ElDeg, c.RAdeg, c.DecDeg)
}

func formatRiseSet(res astro.RiseSetResult, loc *time.Location) string {
	switch rs := res.(type) {
	case astro.NormalDayAndNight:
		return fmt.Sprintf("rise %s  set %s", formatClock(rs.Rise, loc), formatClock(rs.Set, loc))
	case astro.CircumpolarDay:
		return "up all day"
	case astro.CircumpolarNight:
		return "down all day"
	default:
		return "unknown"
	}
}

func locationName(o astro.Observer) string {
	if o.Name != "" {
		return o.Name
	}
	return "custom"
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
