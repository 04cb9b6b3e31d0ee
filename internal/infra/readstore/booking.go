package readstore

import (
	"context"
	"time"

	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/pkg/pgconv"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.room_id, r.name, b.user_id, u.email,
       b.check_in, b.check_out, b.guests, b.status,
       b.total_price_cents, b.note, b.created_at, b.updated_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
JOIN users u ON u.id = b.user_id
`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.dbtx.QueryRow(ctx, bookingViewSQL+"WHERE b.id = $1", id)

	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

const bookingListSQL = `
SELECT b.id, b.room_id, r.name, b.check_in, b.check_out,
       b.guests, b.status, b.total_price_cents, b.created_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
`

func (s *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := s.dbtx.Query(ctx, bookingListSQL+"WHERE b.user_id = $1 ORDER BY b.check_in DESC", userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return scanBookingList(rows)
}

// FindByStatus with an empty status lists everything.
func (s *BookingReadStore) FindByStatus(ctx context.Context, status string) ([]*queries.BookingListItem, error) {
	rows, err := s.dbtx.Query(ctx,
		bookingListSQL+"WHERE ($1 = '' OR b.status = $1) ORDER BY b.check_in", status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by status", err)
	}
	return scanBookingList(rows)
}

func (s *BookingReadStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := s.dbtx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	return count, nil
}

// FindOverlapping is the read-side availability probe. Same half-open
// predicate as the write side, but without any locking: the answer is
// advisory and may be stale by the time a booking is attempted.
const overlappingBlockersSQL = `
SELECT id, check_in, check_out, status
FROM bookings
WHERE room_id = $1
  AND status IN ('pending', 'confirmed')
  AND check_in < $3
  AND check_out > $2
ORDER BY check_in
`

func (s *BookingReadStore) FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]queries.BlockerView, error) {
	rows, err := s.dbtx.Query(ctx, overlappingBlockersSQL, roomID, checkIn, checkOut)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping bookings", err)
	}
	defer rows.Close()

	blockers := []queries.BlockerView{}
	for rows.Next() {
		var b queries.BlockerView
		if err := rows.Scan(&b.ID, &b.CheckIn, &b.CheckOut, &b.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocker", err)
		}
		blockers = append(blockers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blockers", err)
	}

	return blockers, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	var note pgtype.Text
	err := row.Scan(
		&v.ID, &v.RoomID, &v.RoomName, &v.UserID, &v.UserEmail,
		&v.CheckIn, &v.CheckOut, &v.Guests, &v.Status,
		&v.TotalPriceCents, &note, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Note = pgconv.StringPtrFromPgtype(note)
	return &v, nil
}

func scanBookingList(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	defer rows.Close()

	items := []*queries.BookingListItem{}
	for rows.Next() {
		var item queries.BookingListItem
		err := rows.Scan(
			&item.ID, &item.RoomID, &item.RoomName, &item.CheckIn, &item.CheckOut,
			&item.Guests, &item.Status, &item.TotalPriceCents, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings", err)
	}

	return items, nil
}
