package booking

import (
	"guesthouse-booking/internal/domain/room"
)

type PriceCalculator interface {
	QuoteCents(r *room.Room, stay StayPeriod) int64
}

// NightlyRateCalculator bills whole nights at the room's nightly rate.
type NightlyRateCalculator struct{}

func NewNightlyRateCalculator() *NightlyRateCalculator {
	return &NightlyRateCalculator{}
}

func (pc *NightlyRateCalculator) QuoteCents(r *room.Room, stay StayPeriod) int64 {
	return int64(stay.Nights()) * r.NightlyRateCents()
}
