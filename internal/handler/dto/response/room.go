package response

import (
	"time"

	"guesthouse-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	RoomType         string    `json:"roomType"`
	NightlyRateCents int64     `json:"nightlyRateCents"`
	MaxGuests        int32     `json:"maxGuests"`
	Description      *string   `json:"description,omitempty"`
	Amenities        []string  `json:"amenities"`
	RoomNumber       *string   `json:"roomNumber,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromRoomView(rm *queries.RoomView) *RoomResponse {
	return &RoomResponse{
		ID:               rm.ID,
		Name:             rm.Name,
		RoomType:         rm.RoomType,
		NightlyRateCents: rm.NightlyRateCents,
		MaxGuests:        rm.MaxGuests,
		Description:      rm.Description,
		Amenities:        rm.Amenities,
		RoomNumber:       rm.RoomNumber,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromRoomList(views []*queries.RoomView) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromRoomView(v))
	}
	return out
}
