package slot

import (
	"sort"
	"time"

	"marketplace-booking/internal/domain/availability"
)

const DefaultDuration = 30 * time.Minute

// Request carries everything a generator needs; generators keep no state
// between calls.
type Request struct {
	// Date is read as a calendar date in Location.
	Date     time.Time
	Location *time.Location
	Duration time.Duration
	Now      time.Time
	Windows  []availability.TimeWindow
	Booked   []Interval
	Held     []Interval
}

type Generator interface {
	Generate(req Request) []Slot
	Source() Source
}

// RuleGenerator tiles the stored windows of the day.
type RuleGenerator struct{}

func NewRuleGenerator() *RuleGenerator {
	return &RuleGenerator{}
}

func (g *RuleGenerator) Source() Source { return SourceServer }

func (g *RuleGenerator) Generate(req Request) []Slot {
	return tile(req, req.Windows)
}

// FallbackGenerator produces a fixed working-hours grid when stored rules
// cannot be read. Its output is never authoritative for booking.
type FallbackGenerator struct {
	open  availability.TimeOfDay
	close availability.TimeOfDay
}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{
		open:  availability.MustParseTimeOfDay("09:00"),
		close: availability.MustParseTimeOfDay("17:00"),
	}
}

func (g *FallbackGenerator) Source() Source { return SourceFallback }

func (g *FallbackGenerator) Generate(req Request) []Slot {
	return tile(req, []availability.TimeWindow{availability.NewTimeWindow(g.open, g.close)})
}

func tile(req Request, windows []availability.TimeWindow) []Slot {
	slots := []Slot{}
	if len(windows) == 0 {
		return slots
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	d := req.Duration
	if d <= 0 {
		d = DefaultDuration
	}

	for i, w := range windows {
		windowStart := w.Start().On(req.Date, loc)
		windowEnd := w.End().On(req.Date, loc)
		for start := windowStart; !start.Add(d).After(windowEnd); start = start.Add(d) {
			if !start.After(req.Now) {
				continue
			}
			iv := NewInterval(start, d)
			s := Slot{
				Start:  iv.Start,
				End:    iv.End,
				Booked: overlapsAny(iv, req.Booked),
				Locked: overlapsAny(iv, req.Held),
				window: i,
			}
			s.Available = !s.Booked && !s.Locked
			slots = append(slots, s)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}

func overlapsAny(iv Interval, others []Interval) bool {
	for _, o := range others {
		if iv.Overlaps(o) {
			return true
		}
	}
	return false
}
