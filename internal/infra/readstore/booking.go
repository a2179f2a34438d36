package readstore

import (
	"context"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/slot"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/repository/converter"
	"marketplace-booking/internal/pkg/pgconv"
	"marketplace-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingViewQueries interface {
	GetBookingView(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.BookingViewRow, error)
	ListBookingsFirstPage(ctx context.Context, db pgquery.DBTX, arg pgquery.ListBookingsFirstPageParams) ([]pgquery.BookingViewRow, error)
	ListBookingsKeyset(ctx context.Context, db pgquery.DBTX, arg pgquery.ListBookingsKeysetParams) ([]pgquery.BookingViewRow, error)
	ListOverlappingBookings(ctx context.Context, db pgquery.DBTX, arg pgquery.ListOverlappingBookingsParams) ([]pgquery.Booking, error)
}

type BookingReadStore struct {
	queries BookingViewQueries
	db      pgquery.DBTX
}

func NewBookingReadStore(queries BookingViewQueries, db pgquery.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view", err)
	}
	return toBookingView(row), nil
}

func (r *BookingReadStore) ListFirstPage(ctx context.Context, filter queries.BookingFilter, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.queries.ListBookingsFirstPage(ctx, r.db, pgquery.ListBookingsFirstPageParams{
		UserID:   filter.UserID,
		As:       string(filter.As),
		Statuses: filter.Statuses,
		Limit:    limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings first page", err)
	}
	return toBookingListItems(rows), nil
}

func (r *BookingReadStore) ListKeyset(ctx context.Context, filter queries.BookingFilter, lastStart time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.queries.ListBookingsKeyset(ctx, r.db, pgquery.ListBookingsKeysetParams{
		UserID:    filter.UserID,
		As:        string(filter.As),
		Statuses:  filter.Statuses,
		StartTime: pgconv.TimeToPgtype(lastStart),
		ID:        lastID,
		Limit:     limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings keyset", err)
	}
	return toBookingListItems(rows), nil
}

func (r *BookingReadStore) FindActiveIntervals(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]slot.Interval, error) {
	rows, err := r.queries.ListOverlappingBookings(ctx, r.db, pgquery.ListOverlappingBookingsParams{
		ServiceID: serviceID,
		From:      pgconv.TimeToPgtype(from),
		To:        pgconv.TimeToPgtype(to),
		Statuses:  converter.StatusStrings(booking.ActiveStatuses),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}
	out := make([]slot.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, slot.Interval{
			Start: pgconv.TimeFromPgtype(row.StartTime),
			End:   pgconv.TimeFromPgtype(row.EndTime),
		})
	}
	return out, nil
}

func toBookingView(row pgquery.BookingViewRow) *queries.BookingView {
	return &queries.BookingView{
		ID:              row.ID,
		ServiceID:       row.ServiceID,
		ServiceTitle:    row.ServiceTitle,
		ProviderID:      row.ProviderID,
		ClientID:        row.ClientID,
		StartTime:       pgconv.TimeFromPgtype(row.StartTime),
		EndTime:         pgconv.TimeFromPgtype(row.EndTime),
		DurationMinutes: int(row.DurationMinutes),
		Status:          row.Status,
		PriceCents:      row.PriceCents,
		Notes:           pgconv.StringPtrFromPgtype(row.Notes),
		MeetingLink:     pgconv.StringPtrFromPgtype(row.MeetingLink),
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func toBookingListItems(rows []pgquery.BookingViewRow) []*queries.BookingListItem {
	result := make([]*queries.BookingListItem, len(rows))
	for i, row := range rows {
		result[i] = &queries.BookingListItem{
			ID:              row.ID,
			ServiceID:       row.ServiceID,
			ServiceTitle:    row.ServiceTitle,
			ProviderID:      row.ProviderID,
			ClientID:        row.ClientID,
			StartTime:       pgconv.TimeFromPgtype(row.StartTime),
			EndTime:         pgconv.TimeFromPgtype(row.EndTime),
			DurationMinutes: int(row.DurationMinutes),
			Status:          row.Status,
			PriceCents:      row.PriceCents,
		}
	}
	return result
}
