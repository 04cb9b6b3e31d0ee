//go:build unit || e2e

package builder

import (
	"time"

	domroom "guesthouse-booking/internal/domain/room"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomBuilder struct {
	ID               uuid.UUID
	Name             string
	RoomType         string
	NightlyRateCents int64
	MaxGuests        int
	Description      string
	Amenities        []string
	RoomNumber       string
	CreatedAt        time.Time
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		ID:               uuid.New(),
		Name:             "Standard Room 1",
		RoomType:         "standard",
		NightlyRateCents: 1500,
		MaxGuests:        2,
		Description:      "Cozy standard room with a garden view.",
		Amenities:        []string{"wifi", "fan"},
		RoomNumber:       "101",
		CreatedAt:        time.Now(),
	}
}

func (r *RoomBuilder) WithID(id uuid.UUID) *RoomBuilder {
	r.ID = id
	return r
}

func (r *RoomBuilder) WithRate(cents int64) *RoomBuilder {
	r.NightlyRateCents = cents
	return r
}

func (r *RoomBuilder) WithMaxGuests(n int) *RoomBuilder {
	r.MaxGuests = n
	return r
}

func (r *RoomBuilder) AsDeluxe() *RoomBuilder {
	r.Name = "Deluxe Room 1"
	r.RoomType = "deluxe"
	r.NightlyRateCents = 2500
	r.MaxGuests = 3
	r.RoomNumber = "201"
	return r
}

func (r *RoomBuilder) AsFamily() *RoomBuilder {
	r.Name = "Family Suite 1"
	r.RoomType = "family"
	r.NightlyRateCents = 3500
	r.MaxGuests = 5
	r.RoomNumber = "301"
	return r
}

func (r *RoomBuilder) BuildDomain() (*domroom.Room, error) {
	roomType, err := domroom.NewType(r.RoomType)
	if err != nil {
		return nil, err
	}
	return domroom.NewRoom(r.ID, r.Name, roomType, r.NightlyRateCents, r.MaxGuests)
}

func (r *RoomBuilder) BuildSnapshot() *shared.RoomSnapshot {
	return &shared.RoomSnapshot{
		ID:               r.ID,
		Name:             r.Name,
		RoomType:         r.RoomType,
		NightlyRateCents: r.NightlyRateCents,
		MaxGuests:        r.MaxGuests,
	}
}

func (r *RoomBuilder) BuildView() *queries.RoomView {
	desc := r.Description
	num := r.RoomNumber
	return &queries.RoomView{
		ID:               r.ID,
		Name:             r.Name,
		RoomType:         r.RoomType,
		NightlyRateCents: r.NightlyRateCents,
		MaxGuests:        int32(r.MaxGuests),
		Description:      &desc,
		Amenities:        r.Amenities,
		RoomNumber:       &num,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.CreatedAt,
	}
}
