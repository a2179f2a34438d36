//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newServices(policy booking.Policy) *booking.Services {
	return &booking.Services{
		Clock:           clock.NewMockClock(now),
		PriceCalculator: booking.NewDefaultPriceCalculator(),
		Policy:          policy,
	}
}

func TestNewBooking(t *testing.T) {
	svc := booking.ServiceSpec{
		ID:                  uuid.New(),
		ProviderID:          uuid.New(),
		BasePriceCents:      6000,
		BaseDurationMinutes: 60,
	}
	clientID := uuid.New()
	start := now.Add(24 * time.Hour)

	t.Run("prices by duration and starts confirmed", func(t *testing.T) {
		b, err := booking.NewBooking(newServices(booking.DefaultPolicy()), svc, clientID, start, 90, booking.Note{})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, int64(9000), b.Price().Cents())
		assert.Equal(t, start.Add(90*time.Minute), b.EndTime())
		assert.Equal(t, svc.ProviderID, b.ProviderID())
		assert.Equal(t, now, b.CreatedAt())
	})

	t.Run("pending when the policy asks for confirmation", func(t *testing.T) {
		policy := booking.DefaultPolicy()
		policy.InitialStatus = booking.StatusPending
		b, err := booking.NewBooking(newServices(policy), svc, clientID, start, 30, booking.Note{})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	testCases := []struct {
		name     string
		clientID uuid.UUID
		start    time.Time
		duration int
		errIs    error
	}{
		{name: "provider books own service", clientID: svc.ProviderID, start: start, duration: 30, errIs: booking.ErrSelfBooking},
		{name: "start in the past", clientID: clientID, start: now.Add(-time.Hour), duration: 30, errIs: booking.ErrStartInPast},
		{name: "start exactly now", clientID: clientID, start: now, duration: 30, errIs: booking.ErrStartInPast},
		{name: "duration off the granularity", clientID: clientID, start: start, duration: 45, errIs: booking.ErrInvalidDuration},
		{name: "duration not allowed", clientID: clientID, start: start, duration: 120, errIs: booking.ErrInvalidDuration},
		{name: "zero duration", clientID: clientID, start: start, duration: 0, errIs: booking.ErrInvalidDuration},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := booking.NewBooking(newServices(booking.DefaultPolicy()), svc, tc.clientID, tc.start, tc.duration, booking.Note{})
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestBooking_Transitions(t *testing.T) {
	policy := booking.DefaultPolicy()
	base := func(status booking.Status) *builder.BookingBuilder {
		return builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = status
			b.StartTime = now.Add(48 * time.Hour)
		})
	}

	t.Run("cancel", func(t *testing.T) {
		testCases := []struct {
			name   string
			status booking.Status
			actor  func(bb *builder.BookingBuilder) uuid.UUID
			at     func(bb *builder.BookingBuilder) time.Time
			errIs  error
		}{
			{name: "client cancels confirmed", status: booking.StatusConfirmed, actor: clientOf, at: fixed(now)},
			{name: "provider cancels pending", status: booking.StatusPending, actor: providerOf, at: fixed(now)},
			{name: "stranger cannot cancel", status: booking.StatusConfirmed, actor: stranger, at: fixed(now), errIs: booking.ErrNotParticipant},
			{name: "completed is terminal", status: booking.StatusCompleted, actor: clientOf, at: fixed(now), errIs: booking.ErrInvalidTransition},
			{name: "cancelled is terminal", status: booking.StatusCancelled, actor: clientOf, at: fixed(now), errIs: booking.ErrInvalidTransition},
			{name: "cannot cancel once started", status: booking.StatusConfirmed, actor: clientOf, at: startOf, errIs: booking.ErrAlreadyStarted},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				bb := base(tc.status)
				b := bb.BuildDomain()
				err := b.Cancel(tc.actor(bb), tc.at(bb), policy)
				if tc.errIs != nil {
					require.ErrorIs(t, err, tc.errIs)
					assert.Equal(t, tc.status, b.Status())
					return
				}
				require.NoError(t, err)
				assert.Equal(t, booking.StatusCancelled, b.Status())
			})
		}
	})

	t.Run("cancel notice", func(t *testing.T) {
		p := policy
		p.CancelMinNotice = 24 * time.Hour
		bb := base(booking.StatusConfirmed)
		b := bb.BuildDomain()

		err := b.Cancel(bb.ClientID, bb.StartTime.Add(-23*time.Hour), p)
		require.ErrorIs(t, err, booking.ErrCancelNoticeTooLate)

		require.NoError(t, b.Cancel(bb.ClientID, bb.StartTime.Add(-25*time.Hour), p))
	})

	t.Run("complete", func(t *testing.T) {
		bb := base(booking.StatusConfirmed)
		b := bb.BuildDomain()
		require.ErrorIs(t, b.Complete(bb.ClientID, now, policy), booking.ErrNotProvider)
		require.NoError(t, b.Complete(bb.ProviderID, now, policy))
		assert.Equal(t, booking.StatusCompleted, b.Status())

		pending := base(booking.StatusPending)
		require.ErrorIs(t, pending.BuildDomain().Complete(pending.ProviderID, now, policy), booking.ErrInvalidTransition)
	})

	t.Run("complete after end only", func(t *testing.T) {
		p := policy
		p.EnforceCompleteAfterEnd = true
		bb := base(booking.StatusConfirmed)
		b := bb.BuildDomain()
		require.ErrorIs(t, b.Complete(bb.ProviderID, bb.StartTime, p), booking.ErrNotYetEnded)
		require.NoError(t, b.Complete(bb.ProviderID, bb.EndTime(), p))
	})

	t.Run("confirm", func(t *testing.T) {
		bb := base(booking.StatusPending)
		b := bb.BuildDomain()
		require.ErrorIs(t, b.Confirm(bb.ClientID, now), booking.ErrNotProvider)
		require.NoError(t, b.Confirm(bb.ProviderID, now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		require.ErrorIs(t, b.Confirm(bb.ProviderID, now), booking.ErrInvalidTransition)
	})

	t.Run("meeting link needs a confirmed booking", func(t *testing.T) {
		link, err := booking.NewMeetingLink("https://meet.example.com/room")
		require.NoError(t, err)

		pending := base(booking.StatusPending)
		require.ErrorIs(t, pending.BuildDomain().AttachMeetingLink(pending.ProviderID, link, now), booking.ErrInvalidTransition)

		bb := base(booking.StatusConfirmed)
		b := bb.BuildDomain()
		require.ErrorIs(t, b.AttachMeetingLink(bb.ClientID, link, now), booking.ErrNotProvider)
		require.NoError(t, b.AttachMeetingLink(bb.ProviderID, link, now))
		assert.Equal(t, "https://meet.example.com/room", b.MeetingLink().String())
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, booking.StatusPending.CanTransitionTo(booking.StatusConfirmed))
	assert.True(t, booking.StatusConfirmed.CanTransitionTo(booking.StatusCompleted))
	assert.False(t, booking.StatusPending.CanTransitionTo(booking.StatusCompleted))
	assert.False(t, booking.StatusCompleted.CanTransitionTo(booking.StatusCancelled))
	assert.False(t, booking.StatusCancelled.CanTransitionTo(booking.StatusConfirmed))

	assert.ElementsMatch(t, []booking.Status{booking.StatusPending, booking.StatusConfirmed}, booking.Predecessors(booking.StatusCancelled))
	assert.Equal(t, []booking.Status{booking.StatusConfirmed}, booking.Predecessors(booking.StatusCompleted))

	_, err := booking.NewStatus("archived")
	require.ErrorIs(t, err, booking.ErrInvalidStatus)
}

func TestDefaultPriceCalculator(t *testing.T) {
	calc := booking.NewDefaultPriceCalculator()
	ctx := booking.PriceContext{BasePriceCents: 5000, BaseDurationMinutes: 60}

	assert.Equal(t, int64(2500), calc.CalculatePriceCents(ctx, 30))
	assert.Equal(t, int64(5000), calc.CalculatePriceCents(ctx, 60))
	assert.Equal(t, int64(7500), calc.CalculatePriceCents(ctx, 90))
	// 1000 * 30 / 90 = 333.33 rounds down, 2000 * 30 / 90 = 666.67 rounds up
	assert.Equal(t, int64(333), calc.CalculatePriceCents(booking.PriceContext{BasePriceCents: 1000, BaseDurationMinutes: 90}, 30))
	assert.Equal(t, int64(667), calc.CalculatePriceCents(booking.PriceContext{BasePriceCents: 2000, BaseDurationMinutes: 90}, 30))
	assert.Equal(t, int64(0), calc.CalculatePriceCents(booking.PriceContext{BasePriceCents: 1000}, 30))
}

func TestValueObjects(t *testing.T) {
	note, err := booking.NewNote("  bring a tripod  ")
	require.NoError(t, err)
	assert.Equal(t, "bring a tripod", note.String())

	_, err = booking.NewNote(strings.Repeat("é", booking.MaxNoteLength))
	require.NoError(t, err)
	_, err = booking.NewNote(strings.Repeat("é", booking.MaxNoteLength+1))
	require.ErrorIs(t, err, booking.ErrNoteTooLong)

	for _, raw := range []string{"ftp://host/room", "not a url", "/relative/path", ""} {
		_, err := booking.NewMeetingLink(raw)
		assert.ErrorIs(t, err, booking.ErrInvalidMeetingLink, raw)
	}

	link, err := booking.GenerateMeetingLink("https://meet.jit.si/", uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	require.NoError(t, err)
	assert.Regexp(t, `^https://meet\.jit\.si/service_11111111-1111-1111-1111-111111111111_[0-9a-f]{8}$`, link.String())

	other, err := booking.GenerateMeetingLink("https://meet.jit.si", uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	require.NoError(t, err)
	assert.NotEqual(t, link.String(), other.String())
}

func clientOf(bb *builder.BookingBuilder) uuid.UUID   { return bb.ClientID }
func providerOf(bb *builder.BookingBuilder) uuid.UUID { return bb.ProviderID }
func stranger(*builder.BookingBuilder) uuid.UUID      { return uuid.New() }
func startOf(bb *builder.BookingBuilder) time.Time    { return bb.StartTime }

func fixed(t time.Time) func(*builder.BookingBuilder) time.Time {
	return func(*builder.BookingBuilder) time.Time { return t }
}
