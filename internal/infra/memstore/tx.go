package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/catalog"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	st *state
}

func (t *memTx) Services() shared.ServiceRepository           { return serviceRepo{t.st} }
func (t *memTx) Availability() shared.AvailabilityRepository  { return availabilityRepo{t.st} }
func (t *memTx) Bookings() shared.BookingRepository           { return bookingRepo{t.st} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{t.st} }

type serviceRepo struct{ st *state }

func (r serviceRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	return findService(r.st, id)
}

// FindForUpdate needs no row lock; the transaction already holds the store.
func (r serviceRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	return findService(r.st, id)
}

type availabilityRepo struct{ st *state }

func (r availabilityRepo) Upsert(_ context.Context, rule *availability.Rule) error {
	days, ok := r.st.rules[rule.ServiceID()]
	if !ok {
		days = map[availability.DayOfWeek]*availability.Rule{}
		r.st.rules[rule.ServiceID()] = days
	}
	days[rule.Day()] = rule
	return nil
}

func (r availabilityRepo) Delete(_ context.Context, serviceID uuid.UUID, day availability.DayOfWeek) error {
	days := r.st.rules[serviceID]
	if _, ok := days[day]; !ok {
		return infra.WrapRepoErr("availability rule not found", nil, infra.KindNotFound)
	}
	delete(days, day)
	return nil
}

func (r availabilityRepo) FindByDay(_ context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error) {
	return r.st.rules[serviceID][day], nil
}

type bookingRepo struct{ st *state }

func (r bookingRepo) FindOverlapping(_ context.Context, serviceID uuid.UUID, start, end time.Time, statuses []booking.Status) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.st.bookings {
		if b.ServiceID() != serviceID || !slices.Contains(statuses, b.Status()) || !overlaps(b, start, end) {
			continue
		}
		c := b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime().Before(out[j].StartTime()) })
	return out, nil
}

// Insert enforces the same overlap guard as the Postgres exclusion constraint.
func (r bookingRepo) Insert(_ context.Context, b *booking.Booking) error {
	if b.Status().IsActive() {
		for _, other := range r.st.bookings {
			if other.ServiceID() == b.ServiceID() && other.Status().IsActive() && overlaps(other, b.StartTime(), b.EndTime()) {
				return infra.WrapRepoErr("booking overlaps an active booking",
					errs.Newf("booking %s overlaps %s", b.ID(), other.ID()), infra.KindConflict)
			}
		}
	}
	if _, exists := r.st.bookings[b.ID()]; exists {
		return infra.WrapRepoErr("booking already exists", errs.Newf("booking %s", b.ID()), infra.KindDuplicateKey)
	}
	r.st.bookings[b.ID()] = *b
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &b, nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, next booking.Status, at time.Time) error {
	b, ok := r.st.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if !b.Status().CanTransitionTo(next) {
		return errs.Mark(errs.Newf("booking %s cannot move to %s", id, next), errs.ErrInvalidTransition)
	}
	r.st.bookings[id] = *booking.ReconstructBooking(
		b.ID(), b.ServiceID(), b.ProviderID(), b.ClientID(),
		b.StartTime(), b.EndTime(), b.DurationMinutes(),
		next, b.Price(), b.Note(), b.MeetingLink(),
		b.CreatedAt(), at,
	)
	return nil
}

func (r bookingRepo) SetMeetingLink(_ context.Context, id uuid.UUID, link booking.MeetingLink, at time.Time) error {
	b, ok := r.st.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.st.bookings[id] = *booking.ReconstructBooking(
		b.ID(), b.ServiceID(), b.ProviderID(), b.ClientID(),
		b.StartTime(), b.EndTime(), b.DurationMinutes(),
		b.Status(), b.Price(), b.Note(), link,
		b.CreatedAt(), at,
	)
	return nil
}

const maxJobAttempts = 5

type notificationRepo struct{ st *state }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	id := uuid.New()
	r.st.jobs[id] = jobRecord{
		job: shared.NotificationJob{
			ID:      id,
			Kind:    kind,
			Topic:   topic,
			Payload: slices.Clone(payload),
			RunAt:   runAt,
		},
		status: "queued",
	}
	return nil
}

func (r notificationRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]*shared.NotificationJob, error) {
	var due []shared.NotificationJob
	for _, rec := range r.st.jobs {
		if rec.status == "queued" && !rec.job.RunAt.After(now) {
			due = append(due, rec.job)
		}
	}
	sortJobs(due)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]*shared.NotificationJob, len(due))
	for i := range due {
		out[i] = &due[i]
	}
	return out, nil
}

func (r notificationRepo) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	rec, ok := r.st.jobs[id]
	if !ok {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	rec.status = "sent"
	rec.job.Attempts++
	rec.lastError = ""
	r.st.jobs[id] = rec
	return nil
}

func (r notificationRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string, nextRunAt time.Time) error {
	rec, ok := r.st.jobs[id]
	if !ok {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	rec.job.Attempts++
	rec.job.RunAt = nextRunAt
	rec.lastError = lastError
	if rec.job.Attempts >= maxJobAttempts {
		rec.status = "failed"
	}
	r.st.jobs[id] = rec
	return nil
}

func sortJobs(jobs []shared.NotificationJob) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].RunAt.Equal(jobs[j].RunAt) {
			return jobs[i].RunAt.Before(jobs[j].RunAt)
		}
		return jobs[i].ID.String() < jobs[j].ID.String()
	})
}
