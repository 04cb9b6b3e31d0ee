package commands

import (
	"time"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of a command.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

type CreateBookingParams struct {
	RoomID             uuid.UUID
	UserID             uuid.UUID
	CheckIn            time.Time
	CheckOut           time.Time
	Guests             int
	PriceOverrideCents *int64
	Note               string
}

type CreateBookingResult struct {
	BookingID uuid.UUID
}

type TransitionResult struct {
	BookingID uuid.UUID
	Status    booking.Status
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    string
}
