package queries

import (
	"time"

	"marketplace-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound = errs.Mark(errs.New("service not found"), errs.ErrNotFound)
	ErrBookingNotFound = errs.Mark(errs.New("booking not found"), errs.ErrNotFound)
	ErrBookingAccess   = errs.Mark(errs.New("booking access denied"), errs.ErrUnauthorizedAction)
	ErrInvalidCursor   = errs.Mark(errs.New("invalid cursor"), errs.ErrValidation)
	ErrInvalidDate     = errs.Mark(errs.New("date must be YYYY-MM-DD"), errs.ErrValidation)
	ErrInvalidDuration = errs.Mark(errs.New("duration is not an allowed multiple of the slot granularity"), errs.ErrValidation)
	ErrInvalidFilter   = errs.Mark(errs.New("invalid booking filter"), errs.ErrValidation)
)

// Read models (DTO for read side)
type ServiceView struct {
	ID                  uuid.UUID `json:"id"`
	ProviderID          uuid.UUID `json:"provider_id"`
	Title               string    `json:"title"`
	BasePriceCents      int64     `json:"base_price_cents"`
	BaseDurationMinutes int       `json:"base_duration_minutes"`
}

type WindowView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayAvailabilityView struct {
	DayOfWeek int          `json:"day_of_week"`
	DayName   string       `json:"day_name"`
	Windows   []WindowView `json:"windows"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type AvailabilityView struct {
	ServiceID uuid.UUID             `json:"service_id"`
	Days      []DayAvailabilityView `json:"days"`
}

type SlotView struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Booked    bool      `json:"booked"`
	Locked    bool      `json:"locked"`
}

type SlotsView struct {
	ServiceID       uuid.UUID  `json:"service_id"`
	Date            string     `json:"date"`
	DurationMinutes int        `json:"duration_minutes"`
	Source          string     `json:"source"`
	Slots           []SlotView `json:"slots"`
}

type BookingView struct {
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

type BookingListItem struct {
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

// BookingRole selects which side of a booking the caller lists.
type BookingRole string

const (
	AsClient   BookingRole = "client"
	AsProvider BookingRole = "provider"
)

type BookingFilter struct {
	UserID uuid.UUID
	As     BookingRole
	// Statuses empty means any status.
	Statuses []string
}
