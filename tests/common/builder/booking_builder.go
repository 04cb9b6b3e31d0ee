//go:build unit || e2e

package builder

import (
	"time"

	dombooking "guesthouse-booking/internal/domain/booking"
	reqdto "guesthouse-booking/internal/handler/dto/request"
	"guesthouse-booking/internal/pkg/clock"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID                 uuid.UUID
	Room               *RoomBuilder
	UserID             uuid.UUID
	UserEmail          string
	CheckIn            time.Time
	CheckOut           time.Time
	Guests             int
	Status             dombooking.Status
	PriceOverrideCents *int64
	Note               string
	CreatedAt          time.Time
}

func NewBookingBuilder() *BookingBuilder {
	checkIn := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:        uuid.New(),
		Room:      NewRoomBuilder(),
		UserID:    uuid.New(),
		UserEmail: "guest@example.com",
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 3),
		Guests:    2,
		Status:    dombooking.StatusPending,
		Note:      "late arrival",
		CreatedAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithGuests(n int) *BookingBuilder {
	b.Guests = n
	return b
}

func (b *BookingBuilder) WithStatus(s dombooking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithPriceOverride(cents int64) *BookingBuilder {
	b.PriceOverrideCents = &cents
	return b
}

func (b *BookingBuilder) BuildStay() (dombooking.StayPeriod, error) {
	return dombooking.NewStayPeriod(b.CheckIn, b.CheckOut)
}

// BuildDomain runs the booking through the factory, so tests exercise the
// same admission path production uses.
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	roomEntity, err := b.Room.BuildDomain()
	if err != nil {
		return nil, err
	}

	stay, err := b.BuildStay()
	if err != nil {
		return nil, err
	}

	factory := dombooking.NewFactory(
		clock.NewMockClock(b.CreatedAt),
		dombooking.NewNightlyRateCalculator(),
	)
	return factory.CreateBooking(roomEntity, b.UserID, stay, b.Guests, b.PriceOverrideCents, dombooking.NewNote(b.Note))
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:        b.ID,
		RoomID:    b.Room.ID,
		UserID:    b.UserID,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Guests:    b.Guests,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	note := b.Note
	return &queries.BookingView{
		ID:              b.ID,
		RoomID:          b.Room.ID,
		RoomName:        b.Room.Name,
		UserID:          b.UserID,
		UserEmail:       b.UserEmail,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Guests:          int32(b.Guests),
		Status:          b.Status.String(),
		TotalPriceCents: b.totalPriceCents(),
		Note:            &note,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:              b.ID,
		RoomID:          b.Room.ID,
		RoomName:        b.Room.Name,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Guests:          int32(b.Guests),
		Status:          b.Status.String(),
		TotalPriceCents: b.totalPriceCents(),
		CreatedAt:       b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	note := b.Note
	return reqdto.CreateBookingRequest{
		RoomID:             b.Room.ID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Guests:             b.Guests,
		PriceOverrideCents: b.PriceOverrideCents,
		Note:               &note,
	}
}

func (b *BookingBuilder) BuildCreateParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		RoomID:             b.Room.ID,
		UserID:             b.UserID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Guests:             b.Guests,
		PriceOverrideCents: b.PriceOverrideCents,
		Note:               b.Note,
	}
}

func (b *BookingBuilder) totalPriceCents() int64 {
	if b.PriceOverrideCents != nil && *b.PriceOverrideCents > 0 {
		return *b.PriceOverrideCents
	}
	stay, err := b.BuildStay()
	if err != nil {
		return 0
	}
	return int64(stay.Nights()) * b.Room.NightlyRateCents
}
