package pgquery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `b.id, b.service_id, b.provider_id, b.client_id, b.start_time, b.end_time,
b.duration_minutes, b.status, b.price_cents, b.notes, b.meeting_link, b.created_at, b.updated_at`

const insertBooking = `INSERT INTO bookings (
  id, service_id, provider_id, client_id, start_time, end_time,
  duration_minutes, status, price_cents, notes, meeting_link, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type InsertBookingParams = Booking

func (q *Queries) InsertBooking(ctx context.Context, db DBTX, arg InsertBookingParams) error {
	_, err := db.Exec(ctx, insertBooking,
		arg.ID,
		arg.ServiceID,
		arg.ProviderID,
		arg.ClientID,
		arg.StartTime,
		arg.EndTime,
		arg.DurationMinutes,
		arg.Status,
		arg.PriceCents,
		arg.Notes,
		arg.MeetingLink,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getBookingByID = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByID, id))
}

const getBookingForUpdate = getBookingByID + ` FOR UPDATE`

func (q *Queries) GetBookingForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingForUpdate, id))
}

const listOverlappingBookings = `SELECT ` + bookingColumns + ` FROM bookings b
WHERE b.service_id = $1
  AND b.start_time < $3
  AND b.end_time > $2
  AND b.status = ANY($4::text[])
ORDER BY b.start_time`

type ListOverlappingBookingsParams struct {
	ServiceID uuid.UUID
	From      pgtype.Timestamptz
	To        pgtype.Timestamptz
	Statuses  []string
}

func (q *Queries) ListOverlappingBookings(ctx context.Context, db DBTX, arg ListOverlappingBookingsParams) ([]Booking, error) {
	rows, err := db.Query(ctx, listOverlappingBookings, arg.ServiceID, arg.From, arg.To, arg.Statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Booking
	for rows.Next() {
		i, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// The status guard makes a stale transition a no-op instead of an overwrite.
const updateBookingStatus = `UPDATE bookings SET status = $2, updated_at = $3
WHERE id = $1 AND status = ANY($4::text[])`

type UpdateBookingStatusParams struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt pgtype.Timestamptz
	From      []string
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, db DBTX, arg UpdateBookingStatusParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBookingStatus, arg.ID, arg.Status, arg.UpdatedAt, arg.From)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setBookingMeetingLink = `UPDATE bookings SET meeting_link = $2, updated_at = $3 WHERE id = $1`

func (q *Queries) SetBookingMeetingLink(ctx context.Context, db DBTX, id uuid.UUID, link pgtype.Text, at pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, setBookingMeetingLink, id, link, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type BookingViewRow struct {
	Booking
	ServiceTitle string
}

const getBookingView = `SELECT ` + bookingColumns + `, s.title
FROM bookings b JOIN services s ON s.id = b.service_id
WHERE b.id = $1`

func (q *Queries) GetBookingView(ctx context.Context, db DBTX, id uuid.UUID) (BookingViewRow, error) {
	return scanBookingView(db.QueryRow(ctx, getBookingView, id))
}

const listBookingsFilter = `FROM bookings b JOIN services s ON s.id = b.service_id
WHERE CASE WHEN $2::text = 'provider' THEN b.provider_id ELSE b.client_id END = $1
  AND (cardinality($3::text[]) = 0 OR b.status = ANY($3::text[]))`

const listBookingsFirstPage = `SELECT ` + bookingColumns + `, s.title
` + listBookingsFilter + `
ORDER BY b.start_time DESC, b.id DESC
LIMIT $4`

type ListBookingsFirstPageParams struct {
	UserID   uuid.UUID
	As       string
	Statuses []string
	Limit    int32
}

func (q *Queries) ListBookingsFirstPage(ctx context.Context, db DBTX, arg ListBookingsFirstPageParams) ([]BookingViewRow, error) {
	rows, err := db.Query(ctx, listBookingsFirstPage, arg.UserID, arg.As, statusesArg(arg.Statuses), arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBookingViews(rows)
}

const listBookingsKeyset = `SELECT ` + bookingColumns + `, s.title
` + listBookingsFilter + `
  AND (b.start_time, b.id) < ($4, $5)
ORDER BY b.start_time DESC, b.id DESC
LIMIT $6`

type ListBookingsKeysetParams struct {
	UserID    uuid.UUID
	As        string
	Statuses  []string
	StartTime pgtype.Timestamptz
	ID        uuid.UUID
	Limit     int32
}

func (q *Queries) ListBookingsKeyset(ctx context.Context, db DBTX, arg ListBookingsKeysetParams) ([]BookingViewRow, error) {
	rows, err := db.Query(ctx, listBookingsKeyset, arg.UserID, arg.As, statusesArg(arg.Statuses), arg.StartTime, arg.ID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBookingViews(rows)
}

func statusesArg(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func collectBookingViews(rows pgx.Rows) ([]BookingViewRow, error) {
	defer rows.Close()
	var items []BookingViewRow
	for rows.Next() {
		i, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func bookingDest(i *Booking) []any {
	return []any{
		&i.ID,
		&i.ServiceID,
		&i.ProviderID,
		&i.ClientID,
		&i.StartTime,
		&i.EndTime,
		&i.DurationMinutes,
		&i.Status,
		&i.PriceCents,
		&i.Notes,
		&i.MeetingLink,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
}

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var i Booking
	err := row.Scan(bookingDest(&i)...)
	return i, err
}

func scanBookingView(row interface{ Scan(...any) error }) (BookingViewRow, error) {
	var i BookingViewRow
	err := row.Scan(append(bookingDest(&i.Booking), &i.ServiceTitle)...)
	return i, err
}
