package request

import (
	"strings"
	"time"

	"guesthouse-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID             uuid.UUID `json:"room_id" binding:"required"`
	CheckIn            time.Time `json:"check_in" binding:"required"`
	CheckOut           time.Time `json:"check_out" binding:"required"`
	Guests             int       `json:"guests" binding:"required,min=1"`
	PriceOverrideCents *int64    `json:"price_override_cents,omitempty"`
	Note               *string   `json:"note,omitempty"`
}

func (r CreateBookingRequest) ToParams(userID uuid.UUID) commands.CreateBookingParams {
	note := ""
	if r.Note != nil {
		note = strings.TrimSpace(*r.Note)
	}

	return commands.CreateBookingParams{
		RoomID:             r.RoomID,
		UserID:             userID,
		CheckIn:            r.CheckIn,
		CheckOut:           r.CheckOut,
		Guests:             r.Guests,
		PriceOverrideCents: r.PriceOverrideCents,
		Note:               note,
	}
}

type AvailabilityQuery struct {
	CheckIn  time.Time `form:"check_in" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	CheckOut time.Time `form:"check_out" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}
