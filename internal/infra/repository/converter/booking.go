package converter

import (
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/pkg/pgconv"
)

func BookingToInfra(b *booking.Booking) pgquery.InsertBookingParams {
	return pgquery.InsertBookingParams{
		ID:              b.ID(),
		ServiceID:       b.ServiceID(),
		ProviderID:      b.ProviderID(),
		ClientID:        b.ClientID(),
		StartTime:       pgconv.TimeToPgtype(b.StartTime()),
		EndTime:         pgconv.TimeToPgtype(b.EndTime()),
		DurationMinutes: int32(b.DurationMinutes()), // #nosec G115 -- bounded by the allowed durations
		Status:          b.Status().String(),
		PriceCents:      b.Price().Cents(),
		Notes:           pgconv.TextFromString(b.Note().String()),
		MeetingLink:     pgconv.TextFromString(b.MeetingLink().String()),
		CreatedAt:       pgconv.TimeToPgtype(b.CreatedAt()),
		UpdatedAt:       pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

// BookingFromInfra trusts stored values; they were validated on the way in.
func BookingFromInfra(row pgquery.Booking) *booking.Booking {
	status, _ := booking.NewStatus(row.Status)
	price, _ := booking.NewMoney(row.PriceCents)
	note, _ := booking.NewNote(pgconv.StringFromText(row.Notes))
	link, _ := booking.NewMeetingLink(pgconv.StringFromText(row.MeetingLink))

	return booking.ReconstructBooking(
		row.ID, row.ServiceID, row.ProviderID, row.ClientID,
		pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime),
		int(row.DurationMinutes),
		status,
		price,
		note,
		link,
		pgconv.TimeFromPgtype(row.CreatedAt), pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func StatusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
