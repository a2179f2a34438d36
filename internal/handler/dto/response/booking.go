package response

import (
	"time"

	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Booked    bool      `json:"booked"`
	Locked    bool      `json:"locked"`
}

// Source is "server" for rule-based slots and "fallback" for the degraded grid.
type SlotsResponse struct {
	ServiceID       uuid.UUID      `json:"service_id"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"duration_minutes"`
	Source          string         `json:"source"`
	Slots           []SlotResponse `json:"slots"`
}

type SlotReservationResponse struct {
	ServiceID        uuid.UUID `json:"service_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	ExpiresAt        time.Time `json:"expires_at"`
	ExpiresInSeconds int       `json:"expires_in_seconds"`
}

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"service_id"`
	ServiceTitle    string    `json:"service_title"`
	ProviderID      uuid.UUID `json:"provider_id"`
	ClientID        uuid.UUID `json:"client_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PriceCents      int64     `json:"price_cents"`
	Notes           *string   `json:"notes,omitempty"`
	MeetingLink     *string   `json:"meeting_link,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"service_id"`
	ServiceTitle    string    `json:"service_title"`
	ProviderID      uuid.UUID `json:"provider_id"`
	ClientID        uuid.UUID `json:"client_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PriceCents      int64     `json:"price_cents"`
}

type BookingListResponse struct {
	Items      []BookingListItemResponse `json:"items"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

type MeetingLinkResponse struct {
	BookingID   uuid.UUID `json:"booking_id"`
	MeetingLink string    `json:"meeting_link"`
}

func FromSlotsView(v *queries.SlotsView) (*SlotsResponse, error) {
	res, err := copyInto[SlotsResponse](v)
	if err != nil {
		return nil, err
	}
	if res.Slots == nil {
		res.Slots = []SlotResponse{}
	}
	return res, nil
}

func FromSlotReservation(r *reservation.SlotReservation, now time.Time) *SlotReservationResponse {
	return &SlotReservationResponse{
		ServiceID:        r.ServiceID(),
		StartTime:        r.StartTime(),
		EndTime:          r.EndTime(),
		ExpiresAt:        r.ExpiresAt(),
		ExpiresInSeconds: int(r.ExpiresIn(now).Seconds()),
	}
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	return copyInto[BookingResponse](v)
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) (*BookingListResponse, error) {
	res := &BookingListResponse{Items: make([]BookingListItemResponse, 0, len(items))}
	for _, it := range items {
		item, err := copyInto[BookingListItemResponse](it)
		if err != nil {
			return nil, err
		}
		res.Items = append(res.Items, *item)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}
