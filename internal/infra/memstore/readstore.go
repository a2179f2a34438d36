package memstore

import (
	"context"
	"sort"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/slot"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReadStore serves the query side from the same memory as the Store.
type ReadStore struct {
	store *Store
}

func (s *Store) ReadStore() *ReadStore {
	return &ReadStore{store: s}
}

var (
	_ queries.ServiceReadStore        = (*ReadStore)(nil)
	_ queries.AvailabilityReadStore   = (*ReadStore)(nil)
	_ queries.BookedIntervalReadStore = (*ReadStore)(nil)
)

func (r *ReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	svc, err := findService(&r.store.st, id)
	if err != nil {
		return nil, err
	}
	return &queries.ServiceView{
		ID:                  svc.ID(),
		ProviderID:          svc.ProviderID(),
		Title:               svc.Title(),
		BasePriceCents:      svc.BasePriceCents(),
		BaseDurationMinutes: svc.BaseDurationMinutes(),
	}, nil
}

func (r *ReadStore) ListByService(_ context.Context, serviceID uuid.UUID) ([]*availability.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	days := r.store.st.rules[serviceID]
	out := make([]*availability.Rule, 0, len(days))
	for _, rule := range days {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day() < out[j].Day() })
	return out, nil
}

func (r *ReadStore) FindByDay(_ context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.st.rules[serviceID][day], nil
}

func (r *ReadStore) FindActiveIntervals(_ context.Context, serviceID uuid.UUID, from, to time.Time) ([]slot.Interval, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []slot.Interval
	for _, b := range r.store.st.bookings {
		if b.ServiceID() == serviceID && b.Status().IsActive() && overlaps(b, from, to) {
			out = append(out, slot.Interval{Start: b.StartTime(), End: b.EndTime()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// BookingReadStore is split out because its FindByID returns booking views.
type BookingReadStore struct {
	store *Store
}

func (s *Store) BookingReadStore() *BookingReadStore {
	return &BookingReadStore{store: s}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

func (r *BookingReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return r.view(b), nil
}

func (r *BookingReadStore) ListFirstPage(_ context.Context, filter queries.BookingFilter, limit int32) ([]*queries.BookingListItem, error) {
	return r.list(filter, nil, uuid.Nil, limit), nil
}

func (r *BookingReadStore) ListKeyset(_ context.Context, filter queries.BookingFilter, lastStart time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	return r.list(filter, &lastStart, lastID, limit), nil
}

func (r *BookingReadStore) list(filter queries.BookingFilter, lastStart *time.Time, lastID uuid.UUID, limit int32) []*queries.BookingListItem {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []booking.Booking
	for _, b := range r.store.st.bookings {
		owner := b.ClientID()
		if filter.As == queries.AsProvider {
			owner = b.ProviderID()
		}
		if owner != filter.UserID || !statusMatches(filter.Statuses, b.Status()) {
			continue
		}
		if lastStart != nil && !before(b, *lastStart, lastID) {
			continue
		}
		rows = append(rows, b)
	}
	// newest first, id breaks ties
	sort.Slice(rows, func(i, j int) bool {
		return before(rows[j], rows[i].StartTime(), rows[i].ID())
	})
	if limit > 0 && len(rows) > int(limit) {
		rows = rows[:limit]
	}

	out := make([]*queries.BookingListItem, len(rows))
	for i, b := range rows {
		v := r.view(b)
		out[i] = &queries.BookingListItem{
			ID:              v.ID,
			ServiceID:       v.ServiceID,
			ServiceTitle:    v.ServiceTitle,
			ProviderID:      v.ProviderID,
			ClientID:        v.ClientID,
			StartTime:       v.StartTime,
			EndTime:         v.EndTime,
			DurationMinutes: v.DurationMinutes,
			Status:          v.Status,
			PriceCents:      v.PriceCents,
		}
	}
	return out
}

// before reports whether b sorts after (start, id) in descending order.
func before(b booking.Booking, start time.Time, id uuid.UUID) bool {
	if !b.StartTime().Equal(start) {
		return b.StartTime().Before(start)
	}
	return b.ID().String() < id.String()
}

func statusMatches(statuses []string, s booking.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if want == s.String() {
			return true
		}
	}
	return false
}

// view runs under the caller's read lock.
func (r *BookingReadStore) view(b booking.Booking) *queries.BookingView {
	v := &queries.BookingView{
		ID:              b.ID(),
		ServiceID:       b.ServiceID(),
		ProviderID:      b.ProviderID(),
		ClientID:        b.ClientID(),
		StartTime:       b.StartTime(),
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes(),
		Status:          b.Status().String(),
		PriceCents:      b.Price().Cents(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	if svc, ok := r.store.st.services[b.ServiceID()]; ok {
		v.ServiceTitle = svc.Title()
	}
	if !b.Note().IsEmpty() {
		note := b.Note().String()
		v.Notes = &note
	}
	if !b.MeetingLink().IsEmpty() {
		link := b.MeetingLink().String()
		v.MeetingLink = &link
	}
	return v
}
