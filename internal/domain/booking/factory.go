package booking

import (
	"guesthouse-booking/internal/domain/room"
	"guesthouse-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
	}
}

// CreateBooking builds a pending booking for the given room and stay. The
// overlap check against other active bookings is the caller's job; the
// factory only enforces per-booking invariants.
func (f *Factory) CreateBooking(
	roomEntity *room.Room,
	userID uuid.UUID,
	stay StayPeriod,
	guests int,
	priceOverrideCents *int64,
	note Note,
) (*Booking, error) {
	if guests < 1 {
		return nil, ErrInvalidGuestCount
	}
	if !roomEntity.CanAccommodate(guests) {
		return nil, ErrCapacityExceeded
	}

	priceCents := f.PriceCalculator.QuoteCents(roomEntity, stay)
	if priceOverrideCents != nil && *priceOverrideCents > 0 {
		priceCents = *priceOverrideCents
	}

	totalPrice, err := NewMoney(priceCents)
	if err != nil {
		return nil, err
	}

	return newBooking(roomEntity.ID(), userID, stay, guests, totalPrice, note, f.Clock.Now()), nil
}
