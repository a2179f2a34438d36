package shared

import (
	"context"
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/catalog"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Direct access to command reads for validation outside transactions
	Reads() CommandReads
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Services() ServiceRepository
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Notifications() NotificationRepository
}

type CommandReads interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
	// FindForUpdate locks the service row until the transaction ends,
	// serializing booking writes per service.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}

type AvailabilityRepository interface {
	Upsert(ctx context.Context, rule *availability.Rule) error
	Delete(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) error
	// FindByDay returns nil without error when the day has no rule.
	FindByDay(ctx context.Context, serviceID uuid.UUID, day availability.DayOfWeek) (*availability.Rule, error)
}

// BookingRepository is the booking ledger. Insert is the last line of defense
// against double-booking and fails with errs.ErrConflict on overlap.
type BookingRepository interface {
	FindOverlapping(ctx context.Context, serviceID uuid.UUID, start, end time.Time, statuses []booking.Status) ([]*booking.Booking, error)
	Insert(ctx context.Context, b *booking.Booking) error
	// FindByID locks the row for the rest of the transaction.
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// UpdateStatus fails with errs.ErrInvalidTransition when the stored
	// status cannot move to next.
	UpdateStatus(ctx context.Context, id uuid.UUID, next booking.Status, at time.Time) error
	SetMeetingLink(ctx context.Context, id uuid.UUID, link booking.MeetingLink, at time.Time) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue locks up to limit due jobs, skipping rows other workers hold.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextRunAt time.Time) error
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}
