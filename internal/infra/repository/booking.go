package repository

import (
	"context"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// LockRoom takes a transaction-scoped advisory lock keyed by the room ID.
// Every writer that checks availability for a room must pass through here
// first, so check-then-insert sequences for the same room are serialized.
const lockRoomSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

func (r *BookingRepository) LockRoom(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, lockRoomSQL, roomID); err != nil {
		return infra.WrapRepoErr("failed to lock room", err)
	}
	return nil
}

// Half-open interval semantics: a booking blocks [check_in, check_out), so
// back-to-back stays sharing a boundary instant do not collide.
const findActiveOverlappingSQL = `
SELECT id, check_in, check_out, status
FROM bookings
WHERE room_id = $1
  AND status IN ('pending', 'confirmed')
  AND check_in < $3
  AND check_out > $2
  AND ($4::uuid IS NULL OR id <> $4)
ORDER BY check_in
`

func (r *BookingRepository) FindActiveOverlapping(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) ([]shared.BookingBlocker, error) {
	rows, err := dbtx.Query(ctx, findActiveOverlappingSQL, roomID, stay.CheckIn(), stay.CheckOut(), excludeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping bookings", err)
	}
	defer rows.Close()

	var blockers []shared.BookingBlocker
	for rows.Next() {
		var b shared.BookingBlocker
		var status string
		if err := rows.Scan(&b.ID, &b.CheckIn, &b.CheckOut, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping booking", err)
		}
		b.Status = booking.Status(status)
		blockers = append(blockers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overlapping bookings", err)
	}

	return blockers, nil
}

const createBookingSQL = `
INSERT INTO bookings (id, room_id, user_id, check_in, check_out, guests, status, total_price_cents, note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING id
`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBookingSQL,
		b.ID(), b.RoomID(), b.UserID(),
		b.Stay().CheckIn(), b.Stay().CheckOut(),
		b.Guests(), b.Status().String(),
		b.TotalPrice().Cents(), b.Note().String(),
		b.CreatedAt(),
	).Scan(&id)
	if err != nil {
		// Exclusion-constraint violations surface as KindConflict.
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

// The status write is a compare-and-set against the status the caller read
// its snapshot at. Without the guard, a transition that committed between a
// command's snapshot read and its write (a guest cancelling while an approval
// is in flight) would be blindly overwritten.
const updateBookingStatusSQL = `
UPDATE bookings SET status = $3, updated_at = now() WHERE id = $1 AND status = $2
`

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to booking.Status) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL, id, from.String(), to.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		// Bookings are never deleted, so a miss means the status moved
		// underneath us.
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}
