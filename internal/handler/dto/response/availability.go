package response

import (
	"time"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type TimeSlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayAvailabilityResponse struct {
	DayOfWeek int                `json:"day_of_week"`
	DayName   string             `json:"day_name"`
	Windows   []TimeSlotResponse `json:"time_slots"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type AvailabilityResponse struct {
	ServiceID uuid.UUID                 `json:"service_id"`
	Days      []DayAvailabilityResponse `json:"days"`
}

type AvailabilityRuleResponse struct {
	ServiceID uuid.UUID `json:"service_id"`
	DayAvailabilityResponse
}

func FromAvailabilityView(v *queries.AvailabilityView) (*AvailabilityResponse, error) {
	res, err := copyInto[AvailabilityResponse](v)
	if err != nil {
		return nil, err
	}
	if res.Days == nil {
		res.Days = []DayAvailabilityResponse{}
	}
	return res, nil
}

func FromRule(r *availability.Rule) *AvailabilityRuleResponse {
	windows := r.Windows()
	slots := make([]TimeSlotResponse, len(windows))
	for i, w := range windows {
		slots[i] = TimeSlotResponse{Start: w.Start().String(), End: w.End().String()}
	}
	return &AvailabilityRuleResponse{
		ServiceID: r.ServiceID(),
		DayAvailabilityResponse: DayAvailabilityResponse{
			DayOfWeek: r.Day().Int(),
			DayName:   r.Day().String(),
			Windows:   slots,
			UpdatedAt: r.UpdatedAt(),
		},
	}
}
