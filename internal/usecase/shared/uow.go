package shared

import (
	"context"
	"time"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: direct access to command-side reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	RoomByID(ctx context.Context, id uuid.UUID) (*RoomSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
}

// Write-side snapshots keep command code off the read-model types
type RoomSnapshot struct {
	ID               uuid.UUID
	Name             string
	RoomType         string
	NightlyRateCents int64
	MaxGuests        int
}

type BookingSnapshot struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	UserID    uuid.UUID
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Status    booking.Status
	CreatedAt time.Time
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// BookingBlocker identifies an active booking that makes a requested stay
// unavailable. Returned with Conflict outcomes for diagnostics.
type BookingBlocker struct {
	ID       uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
	Status   booking.Status
}

type BookingRepository interface {
	// LockRoom serializes conflict-check-and-mutate sequences per room for
	// the remainder of the surrounding transaction.
	LockRoom(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) error
	FindActiveOverlapping(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) ([]BookingBlocker, error)
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus writes the new status only if the row still carries the
	// expected one; a miss reports KindConflict so a stale transition cannot
	// overwrite a newer committed state.
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to booking.Status) error
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
