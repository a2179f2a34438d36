//go:build unit || e2e

package builder

import (
	"time"

	"marketplace-booking/internal/domain/booking"
	reqdto "marketplace-booking/internal/handler/dto/request"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingBuilder struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	ServiceTitle    string
	ProviderID      uuid.UUID
	ClientID        uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Status          booking.Status
	PriceCents      int64
	Notes           string
	MeetingLink     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	// next day 10:00 UTC, always on the 30 minute grid
	start := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return &BookingBuilder{
		ID:              uuid.New(),
		ServiceID:       uuid.New(),
		ServiceTitle:    "Portrait photography session",
		ProviderID:      uuid.New(),
		ClientID:        uuid.New(),
		StartTime:       start,
		DurationMinutes: 60,
		Status:          booking.StatusConfirmed,
		PriceCents:      6000,
		Notes:           "Outdoor if the weather allows",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Build methods
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	price, _ := booking.NewMoney(b.PriceCents)
	note, _ := booking.NewNote(b.Notes)
	var link booking.MeetingLink
	if b.MeetingLink != "" {
		link, _ = booking.NewMeetingLink(b.MeetingLink)
	}
	return booking.ReconstructBooking(
		b.ID, b.ServiceID, b.ProviderID, b.ClientID,
		b.StartTime, b.EndTime(), b.DurationMinutes,
		b.Status, price, note, link,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *BookingBuilder) BuildInfra() pgquery.Booking {
	return pgquery.Booking{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ProviderID:      b.ProviderID,
		ClientID:        b.ClientID,
		StartTime:       pgtype.Timestamptz{Time: b.StartTime, Valid: true},
		EndTime:         pgtype.Timestamptz{Time: b.EndTime(), Valid: true},
		DurationMinutes: int32(b.DurationMinutes),
		Status:          b.Status.String(),
		PriceCents:      b.PriceCents,
		Notes:           pgtype.Text{String: b.Notes, Valid: b.Notes != ""},
		MeetingLink:     pgtype.Text{String: b.MeetingLink, Valid: b.MeetingLink != ""},
		CreatedAt:       pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:       pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	req := reqdto.CreateBookingRequest{
		ServiceID:       b.ServiceID,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
	}
	if b.Notes != "" {
		notes := b.Notes
		req.Notes = &notes
	}
	return req
}

func (b *BookingBuilder) BuildLockRequestDTO() reqdto.LockSlotRequest {
	return reqdto.LockSlotRequest{
		ServiceID:       b.ServiceID,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
	}
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	v := &queries.BookingView{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		ProviderID:      b.ProviderID,
		ClientID:        b.ClientID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status.String(),
		PriceCents:      b.PriceCents,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Notes != "" {
		notes := b.Notes
		v.Notes = &notes
	}
	if b.MeetingLink != "" {
		link := b.MeetingLink
		v.MeetingLink = &link
	}
	return v
}

func (b *BookingBuilder) BuildListItemQuery() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		ProviderID:      b.ProviderID,
		ClientID:        b.ClientID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status.String(),
		PriceCents:      b.PriceCents,
	}
}
