package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDayOfWeek = errors.New("day_of_week must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM between 00:00 and 24:00")
)

// DayOfWeek counts from Monday=0 to Sunday=6.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func NewDayOfWeek(i int) (DayOfWeek, error) {
	d := DayOfWeek(i)
	if !d.IsValid() {
		return 0, ErrInvalidDayOfWeek
	}
	return d, nil
}

// DayOf reports the weekday of t in t's own location.
func DayOf(t time.Time) DayOfWeek {
	return DayOfWeek((int(t.Weekday()) + 6) % DaysPerWeek)
}

func (d DayOfWeek) IsValid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) Int() int {
	return int(d)
}

func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return "day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d]
}

// TimeOfDay is minutes since local midnight. 24:00 is accepted as a window end.
type TimeOfDay int

const (
	minutesPerDay = 24 * 60
	EndOfDay      = TimeOfDay(minutesPerDay)
)

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay accepts "HH:MM" and the "HH:MM:SS" form with zero seconds.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidTimeOfDay
	}
	if len(parts) == 3 && parts[2] != "00" {
		return 0, ErrInvalidTimeOfDay
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(hour, minute)
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(fmt.Sprintf("availability: bad time of day %q", s))
	}
	return t
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On anchors t to the calendar date of day in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(t) * time.Minute)
}

// TimeWindow is a half-open [start, end) span within one day.
type TimeWindow struct {
	start TimeOfDay
	end   TimeOfDay
}

func NewTimeWindow(start, end TimeOfDay) TimeWindow {
	return TimeWindow{start: start, end: end}
}

func ParseTimeWindow(start, end string) (TimeWindow, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(s, e), nil
}

func (w TimeWindow) Start() TimeOfDay { return w.start }
func (w TimeWindow) End() TimeOfDay   { return w.end }

func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.end-w.start) * time.Minute
}

func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.start < o.end && o.start < w.end
}

func (w TimeWindow) String() string {
	return w.start.String() + "-" + w.end.String()
}
