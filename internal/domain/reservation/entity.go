package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHold = errors.New("hold must cover a positive interval")
	ErrInvalidTTL  = errors.New("hold ttl must be positive")
)

// SlotReservation is a short-lived claim on an interval of a service's
// calendar. It never outlives its TTL and is not a booking.
type SlotReservation struct {
	serviceID uuid.UUID
	holderID  uuid.UUID
	startTime time.Time
	endTime   time.Time
	expiresAt time.Time
}

func NewSlotReservation(serviceID, holderID uuid.UUID, start, end time.Time, now time.Time, ttl time.Duration) (*SlotReservation, error) {
	if !start.Before(end) {
		return nil, ErrInvalidHold
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &SlotReservation{
		serviceID: serviceID,
		holderID:  holderID,
		startTime: start,
		endTime:   end,
		expiresAt: now.Add(ttl),
	}, nil
}

func ReconstructSlotReservation(serviceID, holderID uuid.UUID, start, end, expiresAt time.Time) *SlotReservation {
	return &SlotReservation{
		serviceID: serviceID,
		holderID:  holderID,
		startTime: start,
		endTime:   end,
		expiresAt: expiresAt,
	}
}

func (r *SlotReservation) IsExpired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

func (r *SlotReservation) IsHeldBy(userID uuid.UUID) bool {
	return r.holderID == userID
}

// ExpiresIn is the remaining lifetime, zero once expired.
func (r *SlotReservation) ExpiresIn(now time.Time) time.Duration {
	if r.IsExpired(now) {
		return 0
	}
	return r.expiresAt.Sub(now)
}

func (r *SlotReservation) ServiceID() uuid.UUID { return r.serviceID }
func (r *SlotReservation) HolderID() uuid.UUID  { return r.holderID }
func (r *SlotReservation) StartTime() time.Time { return r.startTime }
func (r *SlotReservation) EndTime() time.Time   { return r.endTime }
func (r *SlotReservation) ExpiresAt() time.Time { return r.expiresAt }
