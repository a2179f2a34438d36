//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/infra/memstore"
	"marketplace-booking/internal/infra/slotlock"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/metrics"
	"marketplace-booking/internal/usecase/commands"
	"marketplace-booking/internal/usecase/shared"
	"marketplace-booking/tests/common/builder"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Sunday noon; the service is open Monday 09:00-12:00.
var (
	now    = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func mondayAt(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type BookingCommandsTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	holds    *slotlock.MemoryStore
	clock    *clock.MockClock
	metrics  *metrics.Metrics
	settings shared.BookingSettings

	providerID uuid.UUID
	serviceID  uuid.UUID

	cmds  commands.BookingCommands
	avail commands.AvailabilityCommands
}

func (s *BookingCommandsTestSuite) SetupTest() {
	cfg := config.NewTestConfig()
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(now)
	s.holds = slotlock.NewMemoryStore(s.clock, time.Minute)
	s.metrics = metrics.NewMetrics(cfg.Metrics)
	settings, err := shared.NewBookingSettings(cfg)
	s.Require().NoError(err)
	s.settings = settings

	svc := builder.NewServiceBuilder().BuildReconstructed()
	s.store.AddService(svc)
	s.providerID = svc.ProviderID()
	s.serviceID = svc.ID()

	s.avail = commands.NewAvailabilityCommands(s.store, s.clock)
	s.rebuild()

	_, err = s.avail.SetDayAvailability(s.ctx, commands.SetDayAvailabilityInput{
		ServiceID: s.serviceID,
		DayOfWeek: 0,
		Windows:   []commands.TimeWindowInput{{Start: "09:00", End: "12:00"}},
	}, shared.Actor{ID: s.providerID, Role: user.RoleSeller})
	s.Require().NoError(err)
}

func (s *BookingCommandsTestSuite) rebuild() {
	s.cmds = commands.NewBookingCommands(s.store, s.holds, s.clock, booking.NewDefaultPriceCalculator(), s.settings, s.metrics)
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) book(clientID uuid.UUID, start time.Time, duration int) (*commands.CreateBookingResult, error) {
	return s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		ServiceID:       s.serviceID,
		StartTime:       start,
		DurationMinutes: duration,
	}, clientID)
}

// ================================================================================
// CreateBooking
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreateBooking() {
	s.Run("success: books an open slot and queues a notification", func() {
		res, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
			ServiceID:       s.serviceID,
			StartTime:       mondayAt(9, 0),
			DurationMinutes: 60,
			Notes:           "first session",
		}, uuid.New())
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, res.Status)

		view, err := s.store.BookingReadStore().FindByID(s.ctx, res.BookingID)
		s.Require().NoError(err)
		s.Equal(int64(6000), view.PriceCents)
		s.Equal(mondayAt(10, 0), view.EndTime)
		s.Require().NotNil(view.Notes)
		s.Equal("first session", *view.Notes)

		jobs := s.store.Jobs()
		s.Require().Len(jobs, 1)
		s.Equal(commands.NotificationBookingCreated, jobs[0].Kind)
		s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.BookingsCreated.WithLabelValues("confirmed")))
	})

	s.Run("pending when the policy asks for confirmation", func() {
		s.settings.Policy.InitialStatus = booking.StatusPending
		s.rebuild()

		res, err := s.book(uuid.New(), mondayAt(11, 0), 30)
		s.Require().NoError(err)
		s.Equal(booking.StatusPending, res.Status)
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Rejections() {
	clientID := uuid.New()
	_, err := s.book(clientID, mondayAt(10, 0), 60)
	s.Require().NoError(err)

	testCases := []struct {
		name     string
		clientID uuid.UUID
		start    time.Time
		duration int
		kind     error
	}{
		{name: "overlaps an existing booking", clientID: uuid.New(), start: mondayAt(9, 30), duration: 60, kind: errs.ErrSlotUnavailable},
		{name: "same start as an existing booking", clientID: uuid.New(), start: mondayAt(10, 0), duration: 30, kind: errs.ErrSlotUnavailable},
		{name: "off the slot grid", clientID: uuid.New(), start: mondayAt(9, 15), duration: 30, kind: errs.ErrSlotUnavailable},
		{name: "runs past the window", clientID: uuid.New(), start: mondayAt(11, 30), duration: 60, kind: errs.ErrSlotUnavailable},
		{name: "outside the window", clientID: uuid.New(), start: mondayAt(13, 0), duration: 30, kind: errs.ErrSlotUnavailable},
		{name: "closed day", clientID: uuid.New(), start: mondayAt(24+9, 0), duration: 30, kind: errs.ErrSlotUnavailable},
		{name: "in the past", clientID: uuid.New(), start: now.Add(-3 * time.Hour), duration: 30, kind: errs.ErrSlotUnavailable},
		{name: "duration off the granularity", clientID: uuid.New(), start: mondayAt(9, 0), duration: 45, kind: errs.ErrValidation},
		{name: "duration not offered", clientID: uuid.New(), start: mondayAt(9, 0), duration: 120, kind: errs.ErrValidation},
		{name: "provider books own service", clientID: s.providerID, start: mondayAt(9, 0), duration: 30, kind: errs.ErrValidation},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.book(tc.clientID, tc.start, tc.duration)
			s.Require().Error(err)
			s.True(errs.Is(err, tc.kind), "got %v", err)
		})
	}

	s.Run("unknown service", func() {
		_, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
			ServiceID:       uuid.New(),
			StartTime:       mondayAt(9, 0),
			DurationMinutes: 30,
		}, clientID)
		s.True(errs.Is(err, errs.ErrNotFound), "got %v", err)
	})

	s.Run("notes too long", func() {
		long := make([]byte, booking.MaxNoteLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
			ServiceID:       s.serviceID,
			StartTime:       mondayAt(9, 0),
			DurationMinutes: 30,
			Notes:           string(long),
		}, uuid.New())
		s.True(errs.Is(err, errs.ErrValidation), "got %v", err)
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Concurrent() {
	const attempts = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.book(uuid.New(), mondayAt(9, 0), 60)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errs.Is(err, errs.ErrSlotUnavailable):
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(attempts-1, conflicts)

	intervals, err := s.store.ReadStore().FindActiveIntervals(s.ctx, s.serviceID, monday, monday.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Len(intervals, 1)
}

// ================================================================================
// LockSlot / ReleaseSlot
// ================================================================================

func (s *BookingCommandsTestSuite) TestLockSlot() {
	alice, bob := uuid.New(), uuid.New()

	s.Run("success: defaults to one granularity step", func() {
		hold, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(9, 0)}, alice)
		s.Require().NoError(err)
		s.Equal(mondayAt(9, 30), hold.EndTime())
		s.Equal(now.Add(s.settings.HoldTTL), hold.ExpiresAt())
	})

	s.Run("holder may re-lock", func() {
		_, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(9, 0), DurationMinutes: 60}, alice)
		s.Require().NoError(err)
	})

	s.Run("another client is refused", func() {
		_, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(9, 30)}, bob)
		s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)
	})

	s.Run("foreign hold blocks booking", func() {
		_, err := s.book(bob, mondayAt(9, 0), 30)
		s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)
	})

	s.Run("holder books and the hold is released", func() {
		_, err := s.book(alice, mondayAt(9, 0), 60)
		s.Require().NoError(err)

		live, err := s.holds.Live(s.ctx, s.serviceID, monday, monday.AddDate(0, 0, 1))
		s.Require().NoError(err)
		s.Empty(live)
	})

	s.Run("booked slot cannot be locked", func() {
		_, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(9, 30)}, bob)
		s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)
	})

	s.Run("invalid duration", func() {
		_, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(10, 0), DurationMinutes: 45}, bob)
		s.True(errs.Is(err, errs.ErrValidation), "got %v", err)
	})
}

func (s *BookingCommandsTestSuite) TestLockSlot_Expiry() {
	alice, bob := uuid.New(), uuid.New()
	_, err := s.cmds.LockSlot(s.ctx, commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(10, 0)}, alice)
	s.Require().NoError(err)

	s.clock.Add(s.settings.HoldTTL)

	_, err = s.book(bob, mondayAt(10, 0), 30)
	s.Require().NoError(err)
}

func (s *BookingCommandsTestSuite) TestReleaseSlot() {
	alice, bob := uuid.New(), uuid.New()
	in := commands.LockSlotInput{ServiceID: s.serviceID, StartTime: mondayAt(11, 0)}
	_, err := s.cmds.LockSlot(s.ctx, in, alice)
	s.Require().NoError(err)

	// releasing someone else's hold is a no-op
	s.Require().NoError(s.cmds.ReleaseSlot(s.ctx, in, bob))
	_, err = s.cmds.LockSlot(s.ctx, in, bob)
	s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)

	s.Require().NoError(s.cmds.ReleaseSlot(s.ctx, in, alice))
	_, err = s.cmds.LockSlot(s.ctx, in, bob)
	s.Require().NoError(err)
}

// ================================================================================
// Status transitions
// ================================================================================

func (s *BookingCommandsTestSuite) TestCancelBooking() {
	clientID := uuid.New()
	res, err := s.book(clientID, mondayAt(9, 0), 30)
	s.Require().NoError(err)

	s.Run("stranger is refused", func() {
		err := s.cmds.CancelBooking(s.ctx, res.BookingID, uuid.New())
		s.True(errs.Is(err, errs.ErrUnauthorizedAction), "got %v", err)
	})

	s.Run("client cancels and the slot reopens", func() {
		s.Require().NoError(s.cmds.CancelBooking(s.ctx, res.BookingID, clientID))

		_, err := s.book(uuid.New(), mondayAt(9, 0), 30)
		s.Require().NoError(err)
	})

	s.Run("cancelled is terminal", func() {
		err := s.cmds.CancelBooking(s.ctx, res.BookingID, clientID)
		s.True(errs.Is(err, errs.ErrInvalidTransition), "got %v", err)
	})

	s.Run("unknown booking", func() {
		err := s.cmds.CancelBooking(s.ctx, uuid.New(), clientID)
		s.True(errs.Is(err, errs.ErrNotFound), "got %v", err)
	})

	s.Run("started booking cannot be cancelled", func() {
		started, err := s.book(clientID, mondayAt(11, 0), 30)
		s.Require().NoError(err)

		s.clock.Set(mondayAt(11, 10))
		defer s.clock.Set(now)
		err = s.cmds.CancelBooking(s.ctx, started.BookingID, clientID)
		s.True(errs.Is(err, errs.ErrInvalidTransition), "got %v", err)
	})

	kinds := []string{}
	for _, j := range s.store.Jobs() {
		kinds = append(kinds, j.Kind)
	}
	s.Contains(kinds, commands.NotificationBookingCancelled)
}

func (s *BookingCommandsTestSuite) TestCompleteBooking() {
	clientID := uuid.New()
	res, err := s.book(clientID, mondayAt(9, 0), 30)
	s.Require().NoError(err)

	err = s.cmds.CompleteBooking(s.ctx, res.BookingID, clientID)
	s.True(errs.Is(err, errs.ErrUnauthorizedAction), "got %v", err)

	s.Require().NoError(s.cmds.CompleteBooking(s.ctx, res.BookingID, s.providerID))

	err = s.cmds.CancelBooking(s.ctx, res.BookingID, clientID)
	s.True(errs.Is(err, errs.ErrInvalidTransition), "got %v", err)

	// completed bookings no longer occupy the calendar
	_, err = s.book(uuid.New(), mondayAt(9, 0), 30)
	s.Require().NoError(err)
}

func (s *BookingCommandsTestSuite) TestConfirmBooking() {
	s.settings.Policy.InitialStatus = booking.StatusPending
	s.rebuild()

	clientID := uuid.New()
	res, err := s.book(clientID, mondayAt(9, 0), 30)
	s.Require().NoError(err)

	// pending bookings hold the slot
	_, err = s.book(uuid.New(), mondayAt(9, 0), 30)
	s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)

	err = s.cmds.ConfirmBooking(s.ctx, res.BookingID, clientID)
	s.True(errs.Is(err, errs.ErrUnauthorizedAction), "got %v", err)

	s.Require().NoError(s.cmds.ConfirmBooking(s.ctx, res.BookingID, s.providerID))

	err = s.cmds.ConfirmBooking(s.ctx, res.BookingID, s.providerID)
	s.True(errs.Is(err, errs.ErrInvalidTransition), "got %v", err)
}

func (s *BookingCommandsTestSuite) TestAttachMeetingLink() {
	clientID := uuid.New()
	res, err := s.book(clientID, mondayAt(9, 0), 30)
	s.Require().NoError(err)

	s.Run("client is refused", func() {
		_, err := s.cmds.AttachMeetingLink(s.ctx, res.BookingID, "https://meet.example.com/a", clientID)
		s.True(errs.Is(err, errs.ErrUnauthorizedAction), "got %v", err)
	})

	s.Run("invalid link", func() {
		_, err := s.cmds.AttachMeetingLink(s.ctx, res.BookingID, "ftp://meet.example.com/a", s.providerID)
		s.True(errs.Is(err, errs.ErrValidation), "got %v", err)
	})

	s.Run("explicit link", func() {
		link, err := s.cmds.AttachMeetingLink(s.ctx, res.BookingID, "https://meet.example.com/a", s.providerID)
		s.Require().NoError(err)
		s.Equal("https://meet.example.com/a", link.String())
	})

	s.Run("generated link", func() {
		link, err := s.cmds.AttachMeetingLink(s.ctx, res.BookingID, "", s.providerID)
		s.Require().NoError(err)
		s.Contains(link.String(), "https://meet.jit.si/service_"+res.BookingID.String())

		view, err := s.store.BookingReadStore().FindByID(s.ctx, res.BookingID)
		s.Require().NoError(err)
		s.Require().NotNil(view.MeetingLink)
		s.Equal(link.String(), *view.MeetingLink)
	})
}

// unreachableHolds fails every call, as a hold store does while Redis is down.
type unreachableHolds struct{}

var errHoldsDown = errs.New("redis: connection refused")

func (unreachableHolds) Acquire(context.Context, *reservation.SlotReservation) error {
	return errHoldsDown
}

func (unreachableHolds) Release(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) error {
	return errHoldsDown
}

func (unreachableHolds) Live(context.Context, uuid.UUID, time.Time, time.Time) ([]*reservation.SlotReservation, error) {
	return nil, errHoldsDown
}

func (s *BookingCommandsTestSuite) TestCreateBooking_HoldStoreDown() {
	s.cmds = commands.NewBookingCommands(s.store, unreachableHolds{}, s.clock, booking.NewDefaultPriceCalculator(), s.settings, s.metrics)

	res, err := s.book(uuid.New(), mondayAt(9, 0), 60)
	s.Require().NoError(err)
	s.Equal(booking.StatusConfirmed, res.Status)

	s.Run("ledger still rejects an overlap", func() {
		_, err := s.book(uuid.New(), mondayAt(9, 30), 30)
		s.True(errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)
	})
}

func TestCreateBooking_ServiceMissingRule(t *testing.T) {
	store := memstore.New()
	clk := clock.NewMockClock(now)
	svc := builder.NewServiceBuilder().BuildReconstructed()
	store.AddService(svc)

	settings, err := shared.NewBookingSettings(config.NewTestConfig())
	require.NoError(t, err)
	cmds := commands.NewBookingCommands(store, slotlock.NewMemoryStore(clk, time.Minute), clk,
		booking.NewDefaultPriceCalculator(), settings, nil)

	_, err = cmds.CreateBooking(context.Background(), commands.CreateBookingInput{
		ServiceID:       svc.ID(),
		StartTime:       mondayAt(9, 0),
		DurationMinutes: 30,
	}, uuid.New())
	require.True(t, errs.Is(err, errs.ErrSlotUnavailable), "got %v", err)
}
