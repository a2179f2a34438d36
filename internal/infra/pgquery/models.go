package pgquery

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Service struct {
	ID                  uuid.UUID
	ProviderID          uuid.UUID
	Title               string
	BasePriceCents      int64
	BaseDurationMinutes int32
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

type AvailabilityRule struct {
	ServiceID uuid.UUID
	DayOfWeek int16
	// Windows is a JSON array of {"start":"HH:MM","end":"HH:MM"}.
	Windows   []byte
	UpdatedAt pgtype.Timestamptz
}

type Booking struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	ProviderID      uuid.UUID
	ClientID        uuid.UUID
	StartTime       pgtype.Timestamptz
	EndTime         pgtype.Timestamptz
	DurationMinutes int32
	Status          string
	PriceCents      int64
	Notes           pgtype.Text
	MeetingLink     pgtype.Text
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     pgtype.Timestamptz
	Attempts  int32
	Status    string
	LastError pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}
