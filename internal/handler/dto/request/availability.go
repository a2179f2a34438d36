package request

import (
	"marketplace-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type TimeSlotRequest struct {
	Start string `json:"start" binding:"required,hhmm"`
	End   string `json:"end" binding:"required,hhmm"`
}

// SetAvailabilityRequest replaces one weekday's windows. An empty time_slots
// list closes the day.
type SetAvailabilityRequest struct {
	ServiceID uuid.UUID         `json:"service_id" binding:"required"`
	DayOfWeek *int              `json:"day_of_week" binding:"required,min=0,max=6"`
	TimeSlots []TimeSlotRequest `json:"time_slots" binding:"required,max=48,dive"`
}

func (r SetAvailabilityRequest) ToInput() commands.SetDayAvailabilityInput {
	windows := make([]commands.TimeWindowInput, len(r.TimeSlots))
	for i, ts := range r.TimeSlots {
		windows[i] = commands.TimeWindowInput{Start: ts.Start, End: ts.End}
	}
	return commands.SetDayAvailabilityInput{
		ServiceID: r.ServiceID,
		DayOfWeek: *r.DayOfWeek,
		Windows:   windows,
	}
}
