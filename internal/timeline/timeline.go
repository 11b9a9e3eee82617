// Package timeline stitches per-day sunrise and sunset results into the
// last and next solar transition around an instant.
package timeline

import (
	"fmt"

	"github.com/litescript/ls-sunclock/internal/astro"
)

// Kind is the direction of a solar transition.
type Kind int

const (
	Sunrise Kind = iota
	Sunset
)

func (k Kind) String() string {
	switch k {
	case Sunrise:
		return "sunrise"
	case Sunset:
		return "sunset"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DayType classifies the interval containing the requested instant.
type DayType int

const (
	NormalDay DayType = iota
	NormalNight
	FullDay
	FullNight
)

func (d DayType) String() string {
	switch d {
	case NormalDay:
		return "normal day"
	case NormalNight:
		return "normal night"
	case FullDay:
		return "full day"
	case FullNight:
		return "full night"
	default:
		return fmt.Sprintf("DayType(%d)", int(d))
	}
}

// IsDay reports whether the Sun is up for this day type.
func (d DayType) IsDay() bool {
	return d == NormalDay || d == FullDay
}

// TransitionPoint is a sunrise or sunset at an instant.
type TransitionPoint struct {
	Kind  Kind
	Epoch int64
}

// Timeline is the interval between two solar transitions that contains the
// requested instant. Last or Next is nil when no transition was found within
// one day of the instant.
type Timeline struct {
	DayType  DayType
	Instant  int64
	DayStart int64
	Last     *TransitionPoint
	Next     *TransitionPoint
}

// Bounds returns the start and end of the current interval, falling back to
// the UTC day boundaries when a transition is missing.
func (t Timeline) Bounds() (start, end int64) {
	start, end = t.DayStart, t.DayStart+astro.DayMillis
	if t.Last != nil {
		start = t.Last.Epoch
	}
	if t.Next != nil {
		end = t.Next.Epoch
	}
	return start, end
}

// Complete reports whether both transitions are known.
func (t Timeline) Complete() bool {
	return t.Last != nil && t.Next != nil
}

// Valid checks the ordering and alternation invariants.
func (t Timeline) Valid() error {
	if t.Last != nil && t.Last.Epoch > t.Instant {
		return fmt.Errorf("last %s at %d is after instant %d", t.Last.Kind, t.Last.Epoch, t.Instant)
	}
	if t.Next != nil && t.Next.Epoch <= t.Instant {
		return fmt.Errorf("next %s at %d is not after instant %d", t.Next.Kind, t.Next.Epoch, t.Instant)
	}
	if t.Complete() && t.Last.Kind == t.Next.Kind {
		return fmt.Errorf("last and next are both %s", t.Last.Kind)
	}
	return nil
}
