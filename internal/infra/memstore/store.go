// Package memstore implements the storage ports in process memory. It backs
// the "memory" storage driver and the use case tests.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type jobRecord struct {
	job       shared.NotificationJob
	status    string
	lastError string
}

type state struct {
	services map[uuid.UUID]catalog.Service
	rules    map[uuid.UUID]map[availability.DayOfWeek]*availability.Rule
	bookings map[uuid.UUID]booking.Booking
	jobs     map[uuid.UUID]jobRecord
}

func newState() state {
	return state{
		services: map[uuid.UUID]catalog.Service{},
		rules:    map[uuid.UUID]map[availability.DayOfWeek]*availability.Rule{},
		bookings: map[uuid.UUID]booking.Booking{},
		jobs:     map[uuid.UUID]jobRecord{},
	}
}

func (s state) clone() state {
	c := state{
		services: maps.Clone(s.services),
		rules:    make(map[uuid.UUID]map[availability.DayOfWeek]*availability.Rule, len(s.rules)),
		bookings: maps.Clone(s.bookings),
		jobs:     maps.Clone(s.jobs),
	}
	for id, days := range s.rules {
		c.rules[id] = maps.Clone(days)
	}
	return c
}

// Store is a whole database guarded by one lock. Within is serializable:
// one transaction runs at a time and a failed one leaves no trace.
type Store struct {
	mu sync.RWMutex
	st state
}

func New() *Store {
	return &Store{st: newState()}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(ctx, &memTx{st: &s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Reads() shared.CommandReads {
	return &commandReads{store: s}
}

// AddService seeds the catalog, which is managed outside this service.
func (s *Store) AddService(svc *catalog.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.services[svc.ID()] = *svc
}

// Jobs lists outbox jobs ordered by run time.
func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shared.NotificationJob, 0, len(s.st.jobs))
	for _, r := range s.st.jobs {
		out = append(out, r.job)
	}
	sortJobs(out)
	return out
}

type commandReads struct {
	store *Store
}

func (r *commandReads) ServiceByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return findService(&r.store.st, id)
}

func findService(st *state, id uuid.UUID) (*catalog.Service, error) {
	svc, ok := st.services[id]
	if !ok {
		return nil, infra.WrapRepoErr("service not found", nil, infra.KindNotFound)
	}
	return &svc, nil
}

func overlaps(b booking.Booking, start, end time.Time) bool {
	return b.StartTime().Before(end) && start.Before(b.EndTime())
}
