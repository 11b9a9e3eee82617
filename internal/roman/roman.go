// Package roman maps a solar timeline onto a 24-hour clock whose day and
// night halves each hold 12 hours of variable length.
package roman

import (
	"fmt"

	"github.com/litescript/ls-sunclock/internal/timeline"
)

const (
	// MinutesPerHalf is 12 Roman hours of 60 minutes.
	MinutesPerHalf = 12 * 60

	// FallbackMinuteMillis is the minute length used when the interval has
	// no transition on one side.
	FallbackMinuteMillis = 120000

	dayStartHour   = 6
	nightStartHour = 18
)

// Time is a reading of the Roman clock.
type Time struct {
	Hours   int
	Minutes int
	// MinuteLength is the length of one Roman minute in seconds.
	MinuteLength float64
	DayType      timeline.DayType
	// LastChange and NextChange bound the current interval. Without a
	// transition on that side they hold the UTC day bounds and HasLast or
	// HasNext is false.
	LastChange int64
	NextChange int64
	HasLast    bool
	HasNext    bool
}

// String renders the reading as HH:MM.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// HourLength is the length of one Roman hour in seconds.
func (t Time) HourLength() float64 {
	return t.MinuteLength * 60
}

// Convert reads the Roman clock at ms.
func Convert(tl timeline.Timeline, ms int64) Time {
	start, end := tl.Bounds()
	out := Time{
		DayType:    tl.DayType,
		LastChange: start,
		NextChange: end,
		HasLast:    tl.Last != nil,
		HasNext:    tl.Next != nil,
	}

	var minuteMs float64
	var since int64
	var startHour int
	if tl.Complete() {
		minuteMs = float64(tl.Next.Epoch-tl.Last.Epoch) / MinutesPerHalf
		since = int64(float64(ms-tl.Last.Epoch) / minuteMs)
		startHour = nightStartHour
		if tl.Last.Kind == timeline.Sunrise {
			startHour = dayStartHour
		}
	} else {
		minuteMs = FallbackMinuteMillis
		since = (ms - tl.DayStart) / FallbackMinuteMillis
		startHour = nightStartHour
		if tl.DayType == timeline.FullDay {
			startHour = dayStartHour
		}
	}

	out.Hours = int((since/60 + int64(startHour)) % 24)
	out.Minutes = int(since % 60)
	out.MinuteLength = minuteMs / 1000
	return out
}
