package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidWindows = errors.New("invalid availability windows")

// ValidationError names the window (or pair of windows) that broke the rule.
// Second is nil when a single window is malformed.
type ValidationError struct {
	Reason string
	First  TimeWindow
	Second *TimeWindow
}

func (e *ValidationError) Error() string {
	if e.Second != nil {
		return fmt.Sprintf("%s: %s and %s", e.Reason, e.First, *e.Second)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.First)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidWindows
}

// Rule is the set of windows a service is open on one weekday.
// Windows are kept sorted by start and never overlap.
type Rule struct {
	serviceID uuid.UUID
	day       DayOfWeek
	windows   []TimeWindow
	updatedAt time.Time
}

func NewRule(serviceID uuid.UUID, day DayOfWeek, windows []TimeWindow, now time.Time) (*Rule, error) {
	if !day.IsValid() {
		return nil, ErrInvalidDayOfWeek
	}
	sorted, err := ValidateWindows(windows)
	if err != nil {
		return nil, err
	}
	return &Rule{
		serviceID: serviceID,
		day:       day,
		windows:   sorted,
		updatedAt: now,
	}, nil
}

func ReconstructRule(serviceID uuid.UUID, day DayOfWeek, windows []TimeWindow, updatedAt time.Time) *Rule {
	return &Rule{
		serviceID: serviceID,
		day:       day,
		windows:   windows,
		updatedAt: updatedAt,
	}
}

// ValidateWindows returns a start-sorted copy or the first offending window pair.
func ValidateWindows(windows []TimeWindow) ([]TimeWindow, error) {
	for _, w := range windows {
		if w.start < 0 || w.end > EndOfDay {
			return nil, &ValidationError{Reason: "window outside of day", First: w}
		}
		if w.end <= w.start {
			return nil, &ValidationError{Reason: "window end must be after start", First: w}
		}
	}

	sorted := make([]TimeWindow, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.start < prev.end {
			return nil, &ValidationError{Reason: "windows overlap", First: prev, Second: &cur}
		}
	}
	return sorted, nil
}

func (r *Rule) ServiceID() uuid.UUID { return r.serviceID }
func (r *Rule) Day() DayOfWeek       { return r.day }
func (r *Rule) UpdatedAt() time.Time { return r.updatedAt }

func (r *Rule) Windows() []TimeWindow {
	out := make([]TimeWindow, len(r.windows))
	copy(out, r.windows)
	return out
}

func (r *Rule) IsClosed() bool {
	return r == nil || len(r.windows) == 0
}

// WeeklySchedule indexes a service's rules by weekday. Missing days are closed.
type WeeklySchedule struct {
	serviceID uuid.UUID
	days      [DaysPerWeek]*Rule
}

func NewWeeklySchedule(serviceID uuid.UUID, rules ...*Rule) *WeeklySchedule {
	s := &WeeklySchedule{serviceID: serviceID}
	for _, r := range rules {
		s.Set(r)
	}
	return s
}

func (s *WeeklySchedule) ServiceID() uuid.UUID { return s.serviceID }

func (s *WeeklySchedule) Set(r *Rule) {
	if r == nil || !r.day.IsValid() {
		return
	}
	s.days[r.day] = r
}

func (s *WeeklySchedule) Rule(day DayOfWeek) *Rule {
	if !day.IsValid() {
		return nil
	}
	return s.days[day]
}

func (s *WeeklySchedule) Windows(day DayOfWeek) []TimeWindow {
	r := s.Rule(day)
	if r.IsClosed() {
		return nil
	}
	return r.Windows()
}

// Days lists the weekdays that have at least one window, Monday first.
func (s *WeeklySchedule) Days() []DayOfWeek {
	var out []DayOfWeek
	for d := Monday; d <= Sunday; d++ {
		if !s.days[d].IsClosed() {
			out = append(out, d)
		}
	}
	return out
}
