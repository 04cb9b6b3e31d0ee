package room

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidType        = errors.New("invalid room type")
	ErrInvalidNightlyRate = errors.New("nightly rate must be positive")
	ErrInvalidCapacity    = errors.New("room capacity must be at least one")
	ErrEmptyName          = errors.New("room name is required")
)

// Room is a catalog entry. Rate and capacity are immutable for the lifetime
// of any booking priced against them: a stored total price never changes
// retroactively.
type Room struct {
	id               uuid.UUID
	name             string
	roomType         Type
	nightlyRateCents int64
	maxGuests        int
	description      string
	amenities        []string
	roomNumber       string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRoom(id uuid.UUID, name string, roomType Type, nightlyRateCents int64, maxGuests int) (*Room, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !roomType.IsValid() {
		return nil, ErrInvalidType
	}
	if nightlyRateCents <= 0 {
		return nil, ErrInvalidNightlyRate
	}
	if maxGuests < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Room{
		id:               id,
		name:             name,
		roomType:         roomType,
		nightlyRateCents: nightlyRateCents,
		maxGuests:        maxGuests,
	}, nil
}

func ReconstructRoom(
	id uuid.UUID,
	name string,
	roomType Type,
	nightlyRateCents int64,
	maxGuests int,
	description string,
	amenities []string,
	roomNumber string,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:               id,
		name:             name,
		roomType:         roomType,
		nightlyRateCents: nightlyRateCents,
		maxGuests:        maxGuests,
		description:      description,
		amenities:        amenities,
		roomNumber:       roomNumber,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r *Room) CanAccommodate(guests int) bool {
	return guests >= 1 && guests <= r.maxGuests
}

func (r *Room) ID() uuid.UUID           { return r.id }
func (r *Room) Name() string            { return r.name }
func (r *Room) RoomType() Type          { return r.roomType }
func (r *Room) NightlyRateCents() int64 { return r.nightlyRateCents }
func (r *Room) MaxGuests() int          { return r.maxGuests }
func (r *Room) Description() string     { return r.description }
func (r *Room) Amenities() []string     { return r.amenities }
func (r *Room) RoomNumber() string      { return r.roomNumber }
func (r *Room) CreatedAt() time.Time    { return r.createdAt }
func (r *Room) UpdatedAt() time.Time    { return r.updatedAt }
