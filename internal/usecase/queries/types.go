package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTOs for the read side)
type BookingView struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"room_id"`
	RoomName        string    `json:"room_name"`
	UserID          uuid.UUID `json:"user_id"`
	UserEmail       string    `json:"user_email"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int32     `json:"guests"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"room_id"`
	RoomName        string    `json:"room_name"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int32     `json:"guests"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

// BlockerView describes an active booking standing in the way of a
// requested stay.
type BlockerView struct {
	ID       uuid.UUID `json:"id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Status   string    `json:"status"`
}

type AvailabilityResult struct {
	Available bool          `json:"available"`
	Blockers  []BlockerView `json:"blockers"`
}

type RoomView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	RoomType         string    `json:"room_type"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	MaxGuests        int32     `json:"max_guests"`
	Description      *string   `json:"description,omitempty"`
	Amenities        []string  `json:"amenities"`
	RoomNumber       *string   `json:"room_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
