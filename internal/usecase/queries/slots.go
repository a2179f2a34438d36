package queries

import (
	"context"
	"log/slog"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/slot"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type SlotQueries interface {
	// AvailableSlots lists candidate slots of date (YYYY-MM-DD in the booking
	// zone). durationMinutes 0 means the base granularity. Holds owned by
	// viewerID do not mark slots locked.
	AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string, durationMinutes int, viewerID uuid.UUID) (*SlotsView, error)
}

// BookedIntervalReadStore returns the [start, end) of pending and confirmed
// bookings intersecting the range.
type BookedIntervalReadStore interface {
	FindActiveIntervals(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]slot.Interval, error)
}

type slotQueriesImpl struct {
	services ServiceReadStore
	rules    AvailabilityReadStore
	bookings BookedIntervalReadStore
	holds    shared.SlotHoldStore
	clock    clock.Clock
	settings shared.BookingSettings
	metrics  *metrics.Metrics

	authoritative slot.Generator
	fallback      slot.Generator
}

func NewSlotQueries(
	services ServiceReadStore,
	rules AvailabilityReadStore,
	bookings BookedIntervalReadStore,
	holds shared.SlotHoldStore,
	clk clock.Clock,
	settings shared.BookingSettings,
	m *metrics.Metrics,
) SlotQueries {
	return &slotQueriesImpl{
		services:      services,
		rules:         rules,
		bookings:      bookings,
		holds:         holds,
		clock:         clk,
		settings:      settings,
		metrics:       m,
		authoritative: slot.NewRuleGenerator(),
		fallback:      slot.NewFallbackGenerator(),
	}
}

func (q *slotQueriesImpl) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string, durationMinutes int, viewerID uuid.UUID) (*SlotsView, error) {
	loc := q.settings.Location
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if durationMinutes == 0 {
		durationMinutes = q.settings.Policy.GranularityMinutes()
	}
	if durationMinutes != q.settings.Policy.GranularityMinutes() {
		if err := q.settings.Policy.ValidateDuration(durationMinutes); err != nil {
			return nil, ErrInvalidDuration
		}
	}

	req := slot.Request{
		Date:     day,
		Location: loc,
		Duration: time.Duration(durationMinutes) * time.Minute,
		Now:      q.clock.Now(),
	}

	gen, err := q.load(ctx, serviceID, &req, viewerID)
	if err != nil {
		return nil, err
	}

	slots := gen.Generate(req)
	q.metrics.SlotQuery(string(gen.Source()))

	view := &SlotsView{
		ServiceID:       serviceID,
		Date:            date,
		DurationMinutes: durationMinutes,
		Source:          string(gen.Source()),
		Slots:           make([]SlotView, 0, len(slots)),
	}
	for _, s := range slots {
		view.Slots = append(view.Slots, SlotView{
			Start:     s.Start,
			End:       s.End,
			Available: s.Available,
			Booked:    s.Booked,
			Locked:    s.Locked,
		})
	}
	return view, nil
}

// load fills req from the stores and picks the generator. The fallback grid is
// only used when enabled and the stores themselves are failing; a missing
// service is never papered over.
func (q *slotQueriesImpl) load(ctx context.Context, serviceID uuid.UUID, req *slot.Request, viewerID uuid.UUID) (slot.Generator, error) {
	if _, err := q.services.FindByID(ctx, serviceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return q.degrade(serviceID, err)
	}

	rule, err := q.rules.FindByDay(ctx, serviceID, availability.DayOf(req.Date))
	if err != nil {
		return q.degrade(serviceID, err)
	}
	if rule.IsClosed() {
		return q.authoritative, nil
	}
	req.Windows = rule.Windows()

	from, to := q.settings.DayBounds(req.Date)
	booked, err := q.bookings.FindActiveIntervals(ctx, serviceID, from, to)
	if err != nil {
		return q.degrade(serviceID, err)
	}
	req.Booked = booked

	held, err := q.holds.Live(ctx, serviceID, from, to)
	if err != nil {
		// Holds are advisory; booking re-validates against the ledger.
		slog.Warn("slot holds unavailable, listing without them",
			"service_id", serviceID.String(),
			"error", err.Error())
		return q.authoritative, nil
	}
	for _, h := range held {
		if h.IsHeldBy(viewerID) {
			continue
		}
		req.Held = append(req.Held, slot.Interval{Start: h.StartTime(), End: h.EndTime()})
	}
	return q.authoritative, nil
}

func (q *slotQueriesImpl) degrade(serviceID uuid.UUID, cause error) (slot.Generator, error) {
	if !q.settings.FallbackEnabled || !infra.IsKind(cause, infra.KindDBFailure) {
		return nil, cause
	}
	slog.Warn("availability store failing, serving fallback slots",
		"service_id", serviceID.String(),
		"error", cause.Error())
	return q.fallback, nil
}
