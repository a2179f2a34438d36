package slotlock

import (
	"context"
	"sync"
	"time"

	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps holds in process. Each service has one cache entry
// holding its live holds; the entry expires with its longest hold and the
// go-cache janitor drops idle services.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
	clock clock.Clock
}

func NewMemoryStore(clk clock.Clock, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: cache.New(cache.NoExpiration, cleanupInterval),
		clock: clk,
	}
}

var _ shared.SlotHoldStore = (*MemoryStore)(nil)

func (s *MemoryStore) Acquire(_ context.Context, hold *reservation.SlotReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if hold.IsExpired(now) {
		return errs.Wrap(reservation.ErrInvalidTTL, "hold already expired")
	}
	live := s.live(hold.ServiceID(), now)

	for _, h := range live {
		if h.ConflictsWith(hold) {
			return errs.Wrapf(shared.ErrHoldConflict, "held until %s", h.ExpiresAt().Format(time.RFC3339))
		}
	}

	kept := make([]*reservation.SlotReservation, 0, len(live)+1)
	for _, h := range live {
		// the holder's own overlapping holds are replaced by the new one
		if h.IsHeldBy(hold.HolderID()) && h.Overlaps(hold.StartTime(), hold.EndTime()) {
			continue
		}
		kept = append(kept, h)
	}
	kept = append(kept, hold)
	s.store(hold.ServiceID(), kept, now)
	return nil
}

func (s *MemoryStore) Release(_ context.Context, serviceID, holderID uuid.UUID, start, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	live := s.live(serviceID, now)
	kept := live[:0]
	for _, h := range live {
		if h.IsHeldBy(holderID) && h.Overlaps(start, end) {
			continue
		}
		kept = append(kept, h)
	}
	s.store(serviceID, kept, now)
	return nil
}

func (s *MemoryStore) Live(_ context.Context, serviceID uuid.UUID, from, to time.Time) ([]*reservation.SlotReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*reservation.SlotReservation
	for _, h := range s.live(serviceID, s.clock.Now()) {
		if h.Overlaps(from, to) {
			out = append(out, h)
		}
	}
	return out, nil
}

// live returns a fresh slice of unexpired holds. Callers hold s.mu.
func (s *MemoryStore) live(serviceID uuid.UUID, now time.Time) []*reservation.SlotReservation {
	v, ok := s.items.Get(serviceID.String())
	if !ok {
		return nil
	}
	all, _ := v.([]*reservation.SlotReservation)
	out := make([]*reservation.SlotReservation, 0, len(all))
	for _, h := range all {
		if !h.IsExpired(now) {
			out = append(out, h)
		}
	}
	return out
}

func (s *MemoryStore) store(serviceID uuid.UUID, holds []*reservation.SlotReservation, now time.Time) {
	key := serviceID.String()
	if len(holds) == 0 {
		s.items.Delete(key)
		return
	}
	var ttl time.Duration
	for _, h := range holds {
		if d := h.ExpiresIn(now); d > ttl {
			ttl = d
		}
	}
	s.items.Set(key, holds, ttl)
}
