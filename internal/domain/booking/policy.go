package booking

import (
	"errors"
	"slices"
	"time"
)

var ErrInvalidDuration = errors.New("duration is not an allowed multiple of the slot granularity")

// Policy holds the business knobs of the booking flow.
type Policy struct {
	Granularity             time.Duration
	AllowedDurations        []int
	InitialStatus           Status
	EnforceCompleteAfterEnd bool
	CancelMinNotice         time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Granularity:      30 * time.Minute,
		AllowedDurations: []int{30, 60, 90},
		InitialStatus:    StatusConfirmed,
	}
}

func (p Policy) GranularityMinutes() int {
	m := int(p.Granularity / time.Minute)
	if m <= 0 {
		return 30
	}
	return m
}

func (p Policy) ValidateDuration(minutes int) error {
	g := p.GranularityMinutes()
	if minutes <= 0 || minutes%g != 0 {
		return ErrInvalidDuration
	}
	if len(p.AllowedDurations) > 0 && !slices.Contains(p.AllowedDurations, minutes) {
		return ErrInvalidDuration
	}
	return nil
}

func (p Policy) initialStatus() Status {
	if p.InitialStatus == StatusPending {
		return StatusPending
	}
	return StatusConfirmed
}
