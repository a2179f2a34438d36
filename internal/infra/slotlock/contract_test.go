//go:build unit || e2e

package slotlock_test

import (
	"context"
	"testing"
	"time"

	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// runHoldStoreContract exercises the behavior every SlotHoldStore shares.
func runHoldStoreContract(t *testing.T, newStore func(clk clock.Clock) shared.SlotHoldStore) {
	ctx := context.Background()
	ttl := 5 * time.Minute

	setup := func(t *testing.T) (shared.SlotHoldStore, *clock.MockClock, uuid.UUID) {
		t.Helper()
		clk := clock.NewMockClock(base.Add(-24 * time.Hour))
		return newStore(clk), clk, uuid.New()
	}
	hold := func(t *testing.T, clk clock.Clock, serviceID, holder uuid.UUID, startMin, endMin int) *reservation.SlotReservation {
		t.Helper()
		h, err := reservation.NewSlotReservation(serviceID, holder,
			base.Add(time.Duration(startMin)*time.Minute), base.Add(time.Duration(endMin)*time.Minute), clk.Now(), ttl)
		require.NoError(t, err)
		return h
	}

	t.Run("overlapping hold of another holder conflicts", func(t *testing.T) {
		store, clk, serviceID := setup(t)
		alice, bob := uuid.New(), uuid.New()

		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 60)))
		err := store.Acquire(ctx, hold(t, clk, serviceID, bob, 30, 60))
		require.ErrorIs(t, err, shared.ErrHoldConflict)

		// adjacent is fine
		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, bob, 60, 90)))
	})

	t.Run("holder's own overlapping hold is replaced", func(t *testing.T) {
		store, clk, serviceID := setup(t)
		alice := uuid.New()

		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 30)))
		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 60)))

		live, err := store.Live(ctx, serviceID, base, base.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.True(t, live[0].EndTime().Equal(base.Add(60*time.Minute)))
	})

	t.Run("expired holds are ignored", func(t *testing.T) {
		store, clk, serviceID := setup(t)
		alice, bob := uuid.New(), uuid.New()

		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 30)))
		clk.Add(ttl)

		live, err := store.Live(ctx, serviceID, base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, live)
		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, bob, 0, 30)))
	})

	t.Run("release only drops the holder's holds", func(t *testing.T) {
		store, clk, serviceID := setup(t)
		alice, bob := uuid.New(), uuid.New()

		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 30)))
		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, bob, 30, 60)))

		require.NoError(t, store.Release(ctx, serviceID, bob, base, base.Add(30*time.Minute)))
		require.NoError(t, store.Release(ctx, serviceID, alice, base, base.Add(time.Hour)))

		live, err := store.Live(ctx, serviceID, base, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.True(t, live[0].IsHeldBy(bob))
	})

	t.Run("live filters by range and service", func(t *testing.T) {
		store, clk, serviceID := setup(t)
		alice := uuid.New()

		require.NoError(t, store.Acquire(ctx, hold(t, clk, serviceID, alice, 0, 30)))
		require.NoError(t, store.Acquire(ctx, hold(t, clk, uuid.New(), alice, 0, 30)))

		live, err := store.Live(ctx, serviceID, base.Add(30*time.Minute), base.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, live)

		live, err = store.Live(ctx, serviceID, base, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, serviceID, live[0].ServiceID())
		assert.True(t, live[0].ExpiresAt().Equal(clk.Now().Add(ttl)))
	})

	t.Run("release of an unknown service is a no-op", func(t *testing.T) {
		store, _, _ := setup(t)
		require.NoError(t, store.Release(ctx, uuid.New(), uuid.New(), base, base.Add(time.Hour)))
	})
}
