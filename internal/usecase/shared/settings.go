package shared

import (
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingSettings struct {
	Policy          booking.Policy
	Location        *time.Location
	HoldTTL         time.Duration
	FallbackEnabled bool
	MeetingBaseURL  string
}

func NewBookingSettings(cfg config.Config) (BookingSettings, error) {
	b := cfg.Booking
	policy := booking.DefaultPolicy()
	if b.SlotGranularity > 0 {
		policy.Granularity = b.SlotGranularity
	}
	if len(b.AllowedDurations) > 0 {
		policy.AllowedDurations = b.AllowedDurations
	}
	st, err := booking.NewStatus(b.InitialStatus)
	if err != nil || !st.IsActive() {
		return BookingSettings{}, errs.Mark(errs.Newf("initial booking status %q must be pending or confirmed", b.InitialStatus), errs.ErrValidation)
	}
	policy.InitialStatus = st
	loc, err := b.Location()
	if err != nil {
		return BookingSettings{}, errs.Mark(errs.Wrap(err, "booking location"), errs.ErrValidation)
	}
	policy.EnforceCompleteAfterEnd = b.EnforceCompleteAfter
	policy.CancelMinNotice = b.CancelMinNotice

	ttl := b.ReservationTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return BookingSettings{
		Policy:          policy,
		Location:        loc,
		HoldTTL:         ttl,
		FallbackEnabled: b.FallbackEnabled,
		MeetingBaseURL:  b.MeetingBaseURL,
	}, nil
}

// DayBounds returns [00:00, next 00:00) of date's calendar day in loc.
func (s BookingSettings) DayBounds(date time.Time) (time.Time, time.Time) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}
