package slot

import (
	"time"
)

// Interval is a half-open [Start, End) span of absolute time.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps reports a < d && c < b for [a,b) and [c,d).
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Slot is one bookable candidate. Booked and Locked explain why a slot is not
// Available; both may be set.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
	Booked    bool
	Locked    bool

	window int
}

func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Source tells callers whether slots came from stored rules or the degraded grid.
type Source string

const (
	SourceServer   Source = "server"
	SourceFallback Source = "fallback"
)

// Covers reports whether iv is tiled exactly by consecutive available slots
// of a single window.
func Covers(slots []Slot, iv Interval) bool {
	if !iv.Start.Before(iv.End) {
		return false
	}
	expected := iv.Start
	window := -1
	for _, s := range slots {
		if !s.Start.Equal(expected) {
			continue
		}
		if window >= 0 && s.window != window {
			return false
		}
		if !s.Available {
			return false
		}
		window = s.window
		expected = s.End
		if !expected.Before(iv.End) {
			return expected.Equal(iv.End)
		}
	}
	return false
}
