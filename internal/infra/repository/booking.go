package repository

import (
	"context"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/infra"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/repository/converter"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingWriteQueries interface {
	InsertBooking(ctx context.Context, db pgquery.DBTX, arg pgquery.InsertBookingParams) error
	GetBookingForUpdate(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Booking, error)
	ListOverlappingBookings(ctx context.Context, db pgquery.DBTX, arg pgquery.ListOverlappingBookingsParams) ([]pgquery.Booking, error)
	UpdateBookingStatus(ctx context.Context, db pgquery.DBTX, arg pgquery.UpdateBookingStatusParams) (int64, error)
	SetBookingMeetingLink(ctx context.Context, db pgquery.DBTX, id uuid.UUID, link pgtype.Text, at pgtype.Timestamptz) (int64, error)
}

// BookingRepository is the Postgres booking ledger. Overlap between active
// bookings is rejected by the bookings_no_overlap exclusion constraint.
type BookingRepository struct {
	queries BookingWriteQueries
	db      pgquery.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db pgquery.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, serviceID uuid.UUID, start, end time.Time, statuses []booking.Status) ([]*booking.Booking, error) {
	rows, err := r.queries.ListOverlappingBookings(ctx, r.db, pgquery.ListOverlappingBookingsParams{
		ServiceID: serviceID,
		From:      pgconv.TimeToPgtype(start),
		To:        pgconv.TimeToPgtype(end),
		Statuses:  converter.StatusStrings(statuses),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping bookings", err)
	}
	out := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, converter.BookingFromInfra(row))
	}
	return out, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.InsertBooking(ctx, r.db, converter.BookingToInfra(b)); err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	return converter.BookingFromInfra(row), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, next booking.Status, at time.Time) error {
	n, err := r.queries.UpdateBookingStatus(ctx, r.db, pgquery.UpdateBookingStatusParams{
		ID:        id,
		Status:    next.String(),
		UpdatedAt: pgconv.TimeToPgtype(at),
		From:      converter.StatusStrings(booking.Predecessors(next)),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if n == 0 {
		return errs.Mark(errs.Newf("booking %s cannot move to %s", id, next), errs.ErrInvalidTransition)
	}
	return nil
}

func (r *BookingRepository) SetMeetingLink(ctx context.Context, id uuid.UUID, link booking.MeetingLink, at time.Time) error {
	n, err := r.queries.SetBookingMeetingLink(ctx, r.db, id, pgconv.TextFromString(link.String()), pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to set meeting link", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("booking not found", errs.Newf("booking %s", id), infra.KindNotFound)
	}
	return nil
}
