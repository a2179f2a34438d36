package reservation

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const memberSeparator = "|"

// Member is the canonical form of a hold inside its service's hold set:
// "<holder>|<start unix ms>|<end unix ms>".
func (r *SlotReservation) Member() string {
	return r.holderID.String() + memberSeparator +
		strconv.FormatInt(r.startTime.UnixMilli(), 10) + memberSeparator +
		strconv.FormatInt(r.endTime.UnixMilli(), 10)
}

func ParseMember(serviceID uuid.UUID, member string, expiresAt time.Time) (*SlotReservation, bool) {
	parts := strings.Split(member, memberSeparator)
	if len(parts) != 3 {
		return nil, false
	}
	holder, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, false
	}
	startMs, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, false
	}
	endMs, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || endMs <= startMs {
		return nil, false
	}
	return ReconstructSlotReservation(serviceID, holder, time.UnixMilli(startMs).UTC(), time.UnixMilli(endMs).UTC(), expiresAt), true
}

// Overlaps reports whether the hold intersects [start, end).
func (r *SlotReservation) Overlaps(start, end time.Time) bool {
	return r.startTime.Before(end) && start.Before(r.endTime)
}

// ConflictsWith is true when o claims part of the same calendar for a
// different holder.
func (r *SlotReservation) ConflictsWith(o *SlotReservation) bool {
	return r.serviceID == o.serviceID &&
		r.holderID != o.holderID &&
		r.Overlaps(o.startTime, o.endTime)
}
