package shared

import (
	"context"
	"time"

	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrHoldConflict = errs.New("slot is held by another client")

// SlotHoldStore keeps ephemeral slot reservations over exact intervals.
// Expired holds are never returned.
type SlotHoldStore interface {
	// Acquire fails with ErrHoldConflict if another holder's live hold
	// overlaps. The holder's own overlapping holds are replaced.
	Acquire(ctx context.Context, hold *reservation.SlotReservation) error
	// Release drops the holder's holds overlapping [start, end); holds of
	// other holders are left alone.
	Release(ctx context.Context, serviceID, holderID uuid.UUID, start, end time.Time) error
	// Live lists unexpired holds intersecting [from, to).
	Live(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*reservation.SlotReservation, error)
}
