package request

import (
	"strings"
	"time"

	"marketplace-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// LockSlotRequest also serves release-slot. duration_minutes defaults to
// the slot granularity.
type LockSlotRequest struct {
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
}

type CreateBookingRequest struct {
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Notes           *string   `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// MeetingLinkRequest with an empty meeting_link asks for a generated room.
type MeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" binding:"omitempty,url,max=2048"`
}

func (r LockSlotRequest) ToInput() commands.LockSlotInput {
	return commands.LockSlotInput{
		ServiceID:       r.ServiceID,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
	}
}

func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	in := commands.CreateBookingInput{
		ServiceID:       r.ServiceID,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
	}
	if r.Notes != nil {
		in.Notes = strings.TrimSpace(*r.Notes)
	}
	return in
}
