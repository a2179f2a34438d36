package queries

import (
	"context"
	"time"

	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/infra"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListFirstPage(ctx context.Context, filter BookingFilter, limit int32) ([]*BookingListItem, error)
	ListKeyset(ctx context.Context, filter BookingFilter, lastStart time.Time, lastID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	// GetBooking is visible to the booking's client and provider only.
	GetBooking(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*BookingView, error)
	ListMyBookings(ctx context.Context, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetBooking(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*BookingView, error) {
	b, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.ClientID != actorID && b.ProviderID != actorID {
		return nil, ErrBookingAccess
	}
	return b, nil
}

// ListMyBookings pages newest first by start_time.
func (q *bookingQueriesImpl) ListMyBookings(ctx context.Context, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	switch filter.As {
	case "":
		filter.As = AsClient
	case AsClient, AsProvider:
	default:
		return nil, nil, ErrInvalidFilter
	}
	for _, s := range filter.Statuses {
		if _, err := booking.NewStatus(s); err != nil {
			return nil, nil, ErrInvalidFilter
		}
	}

	limit = ValidateLimit(limit)
	var rows []*BookingListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.readStore.ListFirstPage(ctx, filter, int32(limit+1))
	} else {
		lastStart, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.readStore.ListKeyset(ctx, filter, lastStart, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.StartTime, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
