package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/domain/slot"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	NotificationBookingCreated   = "booking_created"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationBookingCompleted = "booking_completed"

	notificationTopic = "booking"
)

type LockSlotInput struct {
	ServiceID       uuid.UUID
	StartTime       time.Time
	DurationMinutes int
}

type ReleaseSlotInput = LockSlotInput

type CreateBookingInput struct {
	ServiceID       uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Notes           string
}

type CreateBookingResult struct {
	BookingID uuid.UUID
	Status    booking.Status
}

type BookingCommands interface {
	LockSlot(ctx context.Context, in LockSlotInput, clientID uuid.UUID) (*reservation.SlotReservation, error)
	ReleaseSlot(ctx context.Context, in ReleaseSlotInput, clientID uuid.UUID) error
	CreateBooking(ctx context.Context, in CreateBookingInput, clientID uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error
	AttachMeetingLink(ctx context.Context, bookingID uuid.UUID, link string, actorID uuid.UUID) (booking.MeetingLink, error)
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	holds     shared.SlotHoldStore
	clock     clock.Clock
	calc      booking.PriceCalculator
	generator *slot.RuleGenerator
	settings  shared.BookingSettings
	metrics   *metrics.Metrics
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	holds shared.SlotHoldStore,
	clk clock.Clock,
	calc booking.PriceCalculator,
	settings shared.BookingSettings,
	m *metrics.Metrics,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		holds:     holds,
		clock:     clk,
		calc:      calc,
		generator: slot.NewRuleGenerator(),
		settings:  settings,
		metrics:   m,
	}
}

// LockSlot places a short hold on [start, start+duration). It only narrows the
// race window; CreateBooking re-validates on its own.
func (uc *bookingCommandsImpl) LockSlot(ctx context.Context, in LockSlotInput, clientID uuid.UUID) (*reservation.SlotReservation, error) {
	duration := in.DurationMinutes
	if duration == 0 {
		duration = uc.settings.Policy.GranularityMinutes()
	}
	if duration != uc.settings.Policy.GranularityMinutes() {
		if err := uc.settings.Policy.ValidateDuration(duration); err != nil {
			return nil, classify(err)
		}
	}
	iv := slot.NewInterval(in.StartTime, minutes(duration))

	svc, err := uc.uow.Reads().ServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, classify(err)
	}

	now := uc.clock.Now()
	var valid bool
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var verr error
		valid, verr = uc.fits(ctx, tx, svc, iv, clientID, now)
		return verr
	})
	if err != nil {
		return nil, classify(err)
	}
	if !valid {
		uc.metrics.SlotLock("unavailable")
		return nil, uc.unavailable(in.ServiceID, iv)
	}

	hold, err := reservation.NewSlotReservation(in.ServiceID, clientID, iv.Start, iv.End, now, uc.settings.HoldTTL)
	if err != nil {
		return nil, classify(err)
	}
	if err := uc.holds.Acquire(ctx, hold); err != nil {
		if errs.Is(err, shared.ErrHoldConflict) {
			uc.metrics.SlotLock("conflict")
			return nil, errs.Mark(err, errs.ErrSlotUnavailable)
		}
		return nil, err
	}

	uc.metrics.SlotLock("acquired")
	slog.Info("slot locked",
		"service_id", in.ServiceID.String(),
		"client_id", clientID.String(),
		"start_time", iv.Start,
		"expires_at", hold.ExpiresAt())
	return hold, nil
}

func (uc *bookingCommandsImpl) ReleaseSlot(ctx context.Context, in ReleaseSlotInput, clientID uuid.UUID) error {
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = uc.settings.Policy.GranularityMinutes()
	}
	iv := slot.NewInterval(in.StartTime, minutes(duration))
	return uc.holds.Release(ctx, in.ServiceID, clientID, iv.Start, iv.End)
}

// CreateBooking validates and inserts inside one transaction. The service row
// lock and the ledger's overlap guard both stop a concurrent double-booking.
func (uc *bookingCommandsImpl) CreateBooking(ctx context.Context, in CreateBookingInput, clientID uuid.UUID) (*CreateBookingResult, error) {
	policy := uc.settings.Policy
	if err := policy.ValidateDuration(in.DurationMinutes); err != nil {
		return nil, classify(err)
	}
	note, err := booking.NewNote(in.Notes)
	if err != nil {
		return nil, classify(err)
	}
	iv := slot.NewInterval(in.StartTime, minutes(in.DurationMinutes))

	if err := uc.checkForeignHolds(ctx, in.ServiceID, iv, clientID); err != nil {
		return nil, err
	}

	services := &booking.Services{
		Clock:           uc.clock,
		PriceCalculator: uc.calc,
		Policy:          policy,
	}

	var created *booking.Booking
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		svc, derr := tx.Services().FindForUpdate(ctx, in.ServiceID)
		if derr != nil {
			return derr
		}

		ok, derr := uc.fits(ctx, tx, svc, iv, clientID, uc.clock.Now())
		if derr != nil {
			return derr
		}
		if !ok {
			return uc.unavailable(in.ServiceID, iv)
		}

		b, derr := booking.NewBooking(services, booking.ServiceSpec{
			ID:                  svc.ID(),
			ProviderID:          svc.ProviderID(),
			BasePriceCents:      svc.BasePriceCents(),
			BaseDurationMinutes: svc.BaseDurationMinutes(),
		}, clientID, iv.Start, in.DurationMinutes, note)
		if derr != nil {
			return derr
		}

		if derr = tx.Bookings().Insert(ctx, b); derr != nil {
			if errs.Is(derr, errs.ErrConflict) {
				return errs.Mark(derr, errs.ErrSlotUnavailable)
			}
			return derr
		}
		created = b
		return enqueue(ctx, tx, NotificationBookingCreated, b, b.CreatedAt())
	})
	if err != nil {
		if errs.Is(err, errs.ErrSlotUnavailable) {
			uc.metrics.BookingConflict()
		}
		return nil, classify(err)
	}

	if rerr := uc.holds.Release(ctx, in.ServiceID, clientID, iv.Start, iv.End); rerr != nil {
		slog.Warn("failed to release slot hold after booking",
			"booking_id", created.ID().String(),
			"error", rerr.Error())
	}

	uc.metrics.BookingCreated(created.Status().String())
	slog.Info("booking created",
		"booking_id", created.ID().String(),
		"service_id", created.ServiceID().String(),
		"client_id", clientID.String(),
		"status", created.Status().String())
	return &CreateBookingResult{BookingID: created.ID(), Status: created.Status()}, nil
}

func (uc *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error {
	return uc.transition(ctx, bookingID, booking.StatusCancelled, NotificationBookingCancelled, func(b *booking.Booking, now time.Time) error {
		return b.Cancel(actorID, now, uc.settings.Policy)
	})
}

func (uc *bookingCommandsImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error {
	return uc.transition(ctx, bookingID, booking.StatusCompleted, NotificationBookingCompleted, func(b *booking.Booking, now time.Time) error {
		return b.Complete(actorID, now, uc.settings.Policy)
	})
}

func (uc *bookingCommandsImpl) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error {
	return uc.transition(ctx, bookingID, booking.StatusConfirmed, NotificationBookingConfirmed, func(b *booking.Booking, now time.Time) error {
		return b.Confirm(actorID, now)
	})
}

// AttachMeetingLink stores raw, or a generated room link when raw is empty.
func (uc *bookingCommandsImpl) AttachMeetingLink(ctx context.Context, bookingID uuid.UUID, raw string, actorID uuid.UUID) (booking.MeetingLink, error) {
	var link booking.MeetingLink
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().FindByID(ctx, bookingID)
		if derr != nil {
			return derr
		}
		if raw == "" {
			link, derr = booking.GenerateMeetingLink(uc.settings.MeetingBaseURL, b.ID())
		} else {
			link, derr = booking.NewMeetingLink(raw)
		}
		if derr != nil {
			return derr
		}
		now := uc.clock.Now()
		if derr = b.AttachMeetingLink(actorID, link, now); derr != nil {
			return derr
		}
		return tx.Bookings().SetMeetingLink(ctx, b.ID(), link, now)
	})
	if err != nil {
		return booking.MeetingLink{}, classify(err)
	}
	return link, nil
}

func (uc *bookingCommandsImpl) transition(
	ctx context.Context,
	bookingID uuid.UUID,
	next booking.Status,
	kind string,
	apply func(b *booking.Booking, now time.Time) error,
) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().FindByID(ctx, bookingID)
		if derr != nil {
			return derr
		}
		now := uc.clock.Now()
		if derr = apply(b, now); derr != nil {
			return derr
		}
		if derr = tx.Bookings().UpdateStatus(ctx, b.ID(), next, now); derr != nil {
			return derr
		}
		return enqueue(ctx, tx, kind, b, now)
	})
	if err != nil {
		return classify(err)
	}

	uc.metrics.BookingTransition(next.String())
	slog.Info("booking status changed",
		"booking_id", bookingID.String(),
		"status", next.String())
	return nil
}

// fits re-derives the day's slots from stored rules and active bookings and
// reports whether iv is fully available inside one window.
func (uc *bookingCommandsImpl) fits(ctx context.Context, tx shared.Tx, svc *catalog.Service, iv slot.Interval, clientID uuid.UUID, now time.Time) (bool, error) {
	if svc.ProviderID() == clientID {
		return false, errs.Mark(booking.ErrSelfBooking, errs.ErrValidation)
	}

	loc := uc.settings.Location
	day := availability.DayOf(iv.Start.In(loc))
	rule, err := tx.Availability().FindByDay(ctx, svc.ID(), day)
	if err != nil {
		return false, err
	}
	if rule.IsClosed() {
		return false, nil
	}

	dayStart, dayEnd := uc.settings.DayBounds(iv.Start)
	existing, err := tx.Bookings().FindOverlapping(ctx, svc.ID(), dayStart, dayEnd, booking.ActiveStatuses)
	if err != nil {
		return false, err
	}
	booked := make([]slot.Interval, 0, len(existing))
	for _, b := range existing {
		booked = append(booked, slot.Interval{Start: b.StartTime(), End: b.EndTime()})
	}

	slots := uc.generator.Generate(slot.Request{
		Date:     iv.Start,
		Location: loc,
		Duration: uc.settings.Policy.Granularity,
		Now:      now,
		Windows:  rule.Windows(),
		Booked:   booked,
	})
	return slot.Covers(slots, iv), nil
}

func (uc *bookingCommandsImpl) checkForeignHolds(ctx context.Context, serviceID uuid.UUID, iv slot.Interval, clientID uuid.UUID) error {
	live, err := uc.holds.Live(ctx, serviceID, iv.Start, iv.End)
	if err != nil {
		// Holds are advisory; the transaction re-checks the ledger.
		slog.Warn("slot holds unavailable, booking without them",
			"service_id", serviceID.String(),
			"error", err.Error())
		return nil
	}
	for _, h := range live {
		if !h.IsHeldBy(clientID) {
			uc.metrics.BookingConflict()
			return errs.Mark(errs.Wrapf(shared.ErrHoldConflict, "service %s at %s", serviceID, iv.Start.Format(time.RFC3339)), errs.ErrSlotUnavailable)
		}
	}
	return nil
}

func (uc *bookingCommandsImpl) unavailable(serviceID uuid.UUID, iv slot.Interval) error {
	slog.Info("slot unavailable",
		"service_id", serviceID.String(),
		"start_time", iv.Start,
		"end_time", iv.End)
	return errs.Mark(errs.Newf("slot %s-%s is not available", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339)), errs.ErrSlotUnavailable)
}

type notificationPayload struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	ClientID   uuid.UUID `json:"client_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
}

func enqueue(ctx context.Context, tx shared.Tx, kind string, b *booking.Booking, runAt time.Time) error {
	payload, err := json.Marshal(notificationPayload{
		BookingID:  b.ID(),
		ServiceID:  b.ServiceID(),
		ProviderID: b.ProviderID(),
		ClientID:   b.ClientID(),
		StartTime:  b.StartTime(),
		EndTime:    b.EndTime(),
		Status:     b.Status().String(),
	})
	if err != nil {
		return errs.Wrap(err, "marshal notification payload")
	}
	return tx.Notifications().CreateJob(ctx, kind, notificationTopic, payload, runAt)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
