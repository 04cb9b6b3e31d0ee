package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStayPeriod = errors.New("invalid stay period")
	ErrInvalidGuestCount = errors.New("at least one guest is required")
	ErrCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrStayNotEnded      = errors.New("stay has not ended yet")
)

// InvalidTransitionError names the current status so callers can explain why
// the requested transition is illegal.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

type Booking struct {
	id         uuid.UUID
	roomID     uuid.UUID
	userID     uuid.UUID
	stay       StayPeriod
	guests     int
	status     Status
	totalPrice Money
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

func newBooking(roomID, userID uuid.UUID, stay StayPeriod, guests int, totalPrice Money, note Note, createdAt time.Time) *Booking {
	return &Booking{
		id:         uuid.New(),
		roomID:     roomID,
		userID:     userID,
		stay:       stay,
		guests:     guests,
		status:     StatusPending,
		totalPrice: totalPrice,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  createdAt,
	}
}

func ReconstructBooking(
	id, roomID, userID uuid.UUID,
	stay StayPeriod,
	guests int,
	status Status,
	totalPrice Money,
	note Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		roomID:     roomID,
		userID:     userID,
		stay:       stay,
		guests:     guests,
		status:     status,
		totalPrice: totalPrice,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm moves a pending booking to confirmed. The caller is responsible for
// re-validating overlap freedom before committing the transition.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return &InvalidTransitionError{From: b.status, To: StatusConfirmed}
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel is idempotent: cancelling an already cancelled booking succeeds
// without changing anything. Completed stays cannot be cancelled.
func (b *Booking) Cancel() error {
	switch b.status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return &InvalidTransitionError{From: b.status, To: StatusCancelled}
	default:
		b.status = StatusCancelled
		return nil
	}
}

// Complete closes out a confirmed stay once its check-out has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return &InvalidTransitionError{From: b.status, To: StatusCompleted}
	}
	if now.Before(b.stay.CheckOut()) {
		return ErrStayNotEnded
	}
	b.status = StatusCompleted
	return nil
}

// IsActive reports whether this booking blocks other bookings on its room.
func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

// ConflictsWith reports whether two bookings compete for the same room over
// intersecting stays. A booking never conflicts with itself, and only active
// bookings participate.
func (b *Booking) ConflictsWith(other *Booking) bool {
	if b.id == other.id || b.roomID != other.roomID {
		return false
	}
	if !b.IsActive() || !other.IsActive() {
		return false
	}
	return b.stay.Overlaps(other.stay)
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) RoomID() uuid.UUID    { return b.roomID }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) Stay() StayPeriod     { return b.stay }
func (b *Booking) Guests() int          { return b.guests }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) TotalPrice() Money    { return b.totalPrice }
func (b *Booking) Note() Note           { return b.note }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
