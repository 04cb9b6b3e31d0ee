package response

import (
	"time"

	"guesthouse-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"roomId"`
	RoomName        string    `json:"roomName"`
	UserID          uuid.UUID `json:"userId"`
	UserEmail       string    `json:"userEmail"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Guests          int32     `json:"guests"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"roomId"`
	RoomName        string    `json:"roomName"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Guests          int32     `json:"guests"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

type BlockerResponse struct {
	ID       uuid.UUID `json:"id"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Status   string    `json:"status"`
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Blockers  []BlockerResponse `json:"blockers"`
}

type PendingCountResponse struct {
	Count int64 `json:"count"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              rm.ID,
		RoomID:          rm.RoomID,
		RoomName:        rm.RoomName,
		UserID:          rm.UserID,
		UserEmail:       rm.UserEmail,
		CheckIn:         rm.CheckIn,
		CheckOut:        rm.CheckOut,
		Guests:          rm.Guests,
		Status:          rm.Status,
		TotalPriceCents: rm.TotalPriceCents,
		Note:            rm.Note,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:              rm.ID,
		RoomID:          rm.RoomID,
		RoomName:        rm.RoomName,
		CheckIn:         rm.CheckIn,
		CheckOut:        rm.CheckOut,
		Guests:          rm.Guests,
		Status:          rm.Status,
		TotalPriceCents: rm.TotalPriceCents,
		CreatedAt:       rm.CreatedAt,
	}
}

func FromBookingList(items []*queries.BookingListItem) []*BookingListResponse {
	out := make([]*BookingListResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromBookingListItem(item))
	}
	return out
}

func FromAvailabilityResult(rm *queries.AvailabilityResult) *AvailabilityResponse {
	blockers := make([]BlockerResponse, 0, len(rm.Blockers))
	for _, b := range rm.Blockers {
		blockers = append(blockers, BlockerResponse{
			ID:       b.ID,
			CheckIn:  b.CheckIn,
			CheckOut: b.CheckOut,
			Status:   b.Status,
		})
	}
	return &AvailabilityResponse{
		Available: rm.Available,
		Blockers:  blockers,
	}
}
