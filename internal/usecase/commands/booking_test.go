//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/pkg/clock"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/tests/common/builder"
	"guesthouse-booking/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	uow      *fake.UoW
	clock    *clock.MockClock
	commands commands.BookingCommands
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.uow = fake.NewUoW()
	s.clock = clock.NewMockClock(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	factory := booking.NewFactory(s.clock, booking.NewNightlyRateCalculator())
	s.commands = commands.NewBookingCommands(s.uow, factory, s.clock)
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) seedRoom() *builder.RoomBuilder {
	room := builder.NewRoomBuilder()
	s.uow.AddRoom(*room.BuildSnapshot())
	return room
}

func (s *BookingCommandsTestSuite) seedBooking(room *builder.RoomBuilder, status booking.Status, checkIn, checkOut time.Time) fake.BookingRecord {
	rec := fake.BookingRecord{
		ID:              uuid.New(),
		RoomID:          room.ID,
		UserID:          uuid.New(),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          2,
		Status:          status,
		TotalPriceCents: 4500,
		CreatedAt:       s.clock.Now(),
	}
	s.uow.AddBooking(rec)
	return rec
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 14, 0, 0, 0, time.UTC)
}

// ================================================================================
// Create
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreate() {
	s.Run("success: admits a pending booking", func() {
		s.SetupTest()
		room := s.seedRoom()
		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).BuildCreateParams()

		result, err := s.commands.Create(context.Background(), params)
		s.Require().NoError(err)
		s.Require().NotNil(result)

		stored, ok := s.uow.Booking(result.BookingID)
		s.Require().True(ok)
		s.Equal(booking.StatusPending, stored.Status)
		s.Equal(params.RoomID, stored.RoomID)
		s.Equal(params.UserID, stored.UserID)
		s.Equal(int64(4500), stored.TotalPriceCents)
	})

	s.Run("success: price override replaces the quoted total", func() {
		s.SetupTest()
		room := s.seedRoom()
		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithPriceOverride(9900).BuildCreateParams()

		result, err := s.commands.Create(context.Background(), params)
		s.Require().NoError(err)

		stored, _ := s.uow.Booking(result.BookingID)
		s.Equal(int64(9900), stored.TotalPriceCents)
	})

	s.Run("conflict: overlapping active booking blocks admission", func() {
		s.SetupTest()
		room := s.seedRoom()
		existing := s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))

		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithStay(day(12), day(15)).BuildCreateParams()

		result, err := s.commands.Create(context.Background(), params)
		s.Require().Nil(result)
		s.Require().ErrorIs(err, commands.ErrBookingConflict)

		var conflictErr *commands.ConflictError
		s.Require().ErrorAs(err, &conflictErr)
		s.Equal(room.ID, conflictErr.RoomID)
		s.Require().Len(conflictErr.Blockers, 1)
		s.Equal(existing.ID, conflictErr.Blockers[0].ID)

		// Nothing new persisted
		s.Equal(1, s.uow.BookingCount())
	})

	s.Run("success: back-to-back stay on the boundary is admitted", func() {
		s.SetupTest()
		room := s.seedRoom()
		s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))

		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithStay(day(13), day(16)).BuildCreateParams()

		_, err := s.commands.Create(context.Background(), params)
		s.Require().NoError(err)
		s.Equal(2, s.uow.BookingCount())
	})

	s.Run("success: cancelled booking does not block", func() {
		s.SetupTest()
		room := s.seedRoom()
		s.seedBooking(room, booking.StatusCancelled, day(10), day(13))

		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithStay(day(10), day(13)).BuildCreateParams()

		_, err := s.commands.Create(context.Background(), params)
		s.Require().NoError(err)
	})

	s.Run("error: unknown room", func() {
		s.SetupTest()
		params := builder.NewBookingBuilder().BuildCreateParams()

		_, err := s.commands.Create(context.Background(), params)
		s.Require().ErrorIs(err, commands.ErrRoomNotFound)
	})

	s.Run("error: check-out not after check-in", func() {
		s.SetupTest()
		room := s.seedRoom()
		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithStay(day(13), day(13)).BuildCreateParams()

		_, err := s.commands.Create(context.Background(), params)
		s.Require().ErrorIs(err, commands.ErrInvalidStayPeriod)
	})

	s.Run("error: guests over room capacity", func() {
		s.SetupTest()
		room := s.seedRoom()
		params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Room = room
		}).WithGuests(10).BuildCreateParams()

		_, err := s.commands.Create(context.Background(), params)
		s.Require().ErrorIs(err, commands.ErrInvalidGuestCount)
		s.Equal(0, s.uow.BookingCount())
	})
}

// Concurrent admissions for the same room and stay must end with exactly one
// winner; everyone else gets a conflict.
func (s *BookingCommandsTestSuite) TestCreateConcurrent() {
	const attempts = 16

	room := s.seedRoom()

	var wg sync.WaitGroup
	errCh := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			params := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
				b.Room = room
			}).WithStay(day(10), day(13)).BuildCreateParams()
			_, err := s.commands.Create(context.Background(), params)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var wins, conflicts int
	for err := range errCh {
		switch {
		case err == nil:
			wins++
		default:
			s.Require().ErrorIs(err, commands.ErrBookingConflict)
			conflicts++
		}
	}

	s.Equal(1, wins)
	s.Equal(attempts-1, conflicts)
	s.Equal(1, s.uow.BookingCount())
}

// ================================================================================
// Approve
// ================================================================================

func (s *BookingCommandsTestSuite) TestApprove() {
	s.Run("success: confirms a pending booking", func() {
		s.SetupTest()
		room := s.seedRoom()
		pending := s.seedBooking(room, booking.StatusPending, day(10), day(13))

		result, err := s.commands.Approve(context.Background(), pending.ID)
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, result.Status)

		stored, _ := s.uow.Booking(pending.ID)
		s.Equal(booking.StatusConfirmed, stored.Status)
	})

	s.Run("conflict: competing active booking leaves it pending", func() {
		s.SetupTest()
		room := s.seedRoom()
		pending := s.seedBooking(room, booking.StatusPending, day(10), day(13))
		competitor := s.seedBooking(room, booking.StatusConfirmed, day(12), day(15))

		result, err := s.commands.Approve(context.Background(), pending.ID)
		s.Require().Nil(result)
		s.Require().ErrorIs(err, commands.ErrBookingConflict)

		var conflictErr *commands.ConflictError
		s.Require().ErrorAs(err, &conflictErr)
		s.Require().Len(conflictErr.Blockers, 1)
		s.Equal(competitor.ID, conflictErr.Blockers[0].ID)

		stored, _ := s.uow.Booking(pending.ID)
		s.Equal(booking.StatusPending, stored.Status)
	})

	s.Run("error: already confirmed", func() {
		s.SetupTest()
		room := s.seedRoom()
		confirmed := s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))

		_, err := s.commands.Approve(context.Background(), confirmed.ID)
		s.Require().ErrorIs(err, commands.ErrInvalidStatusTransition)
	})

	s.Run("error: cancellation landing mid-approval wins", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusPending, day(10), day(13))
		owner := commands.Actor{ID: rec.UserID, Role: user.RoleGuest}

		// The owner's cancel commits between Approve's snapshot read and its
		// status write. The stale approval must not flip the booking back.
		s.uow.AfterBookingRead = func() {
			s.uow.AfterBookingRead = nil
			_, err := s.commands.Cancel(context.Background(), rec.ID, owner)
			s.Require().NoError(err)
		}

		_, err := s.commands.Approve(context.Background(), rec.ID)
		s.Require().ErrorIs(err, commands.ErrInvalidStatusTransition)

		stored, _ := s.uow.Booking(rec.ID)
		s.Equal(booking.StatusCancelled, stored.Status)
	})

	s.Run("error: cancelled booking cannot be approved", func() {
		s.SetupTest()
		room := s.seedRoom()
		cancelled := s.seedBooking(room, booking.StatusCancelled, day(10), day(13))

		_, err := s.commands.Approve(context.Background(), cancelled.ID)
		s.Require().ErrorIs(err, commands.ErrInvalidStatusTransition)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.commands.Approve(context.Background(), uuid.New())
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})
}

// ================================================================================
// Cancel
// ================================================================================

func (s *BookingCommandsTestSuite) TestCancel() {
	guestActor := func(id uuid.UUID) commands.Actor {
		return commands.Actor{ID: id, Role: user.RoleGuest}
	}
	adminActor := commands.Actor{ID: uuid.New(), Role: user.RoleAdmin}

	s.Run("success: owner cancels their booking", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusPending, day(10), day(13))

		result, err := s.commands.Cancel(context.Background(), rec.ID, guestActor(rec.UserID))
		s.Require().NoError(err)
		s.Equal(booking.StatusCancelled, result.Status)

		stored, _ := s.uow.Booking(rec.ID)
		s.Equal(booking.StatusCancelled, stored.Status)
	})

	s.Run("success: admin cancels any booking", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))

		_, err := s.commands.Cancel(context.Background(), rec.ID, adminActor)
		s.Require().NoError(err)
	})

	s.Run("success: cancelling twice is a no-op", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusCancelled, day(10), day(13))

		result, err := s.commands.Cancel(context.Background(), rec.ID, guestActor(rec.UserID))
		s.Require().NoError(err)
		s.Equal(booking.StatusCancelled, result.Status)
	})

	s.Run("error: another guest cannot cancel it", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusPending, day(10), day(13))

		_, err := s.commands.Cancel(context.Background(), rec.ID, guestActor(uuid.New()))
		s.Require().ErrorIs(err, commands.ErrBookingForbidden)

		stored, _ := s.uow.Booking(rec.ID)
		s.Equal(booking.StatusPending, stored.Status)
	})

	s.Run("error: completed stay cannot be cancelled", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusCompleted, day(10), day(13))

		_, err := s.commands.Cancel(context.Background(), rec.ID, adminActor)
		s.Require().ErrorIs(err, commands.ErrInvalidStatusTransition)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.commands.Cancel(context.Background(), uuid.New(), adminActor)
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})
}

// ================================================================================
// Complete
// ================================================================================

func (s *BookingCommandsTestSuite) TestComplete() {
	s.Run("success: closes out a confirmed stay after check-out", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))
		s.clock.Set(day(14))

		result, err := s.commands.Complete(context.Background(), rec.ID)
		s.Require().NoError(err)
		s.Equal(booking.StatusCompleted, result.Status)

		stored, _ := s.uow.Booking(rec.ID)
		s.Equal(booking.StatusCompleted, stored.Status)
	})

	s.Run("error: stay has not ended yet", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusConfirmed, day(10), day(13))
		s.clock.Set(day(12))

		_, err := s.commands.Complete(context.Background(), rec.ID)
		s.Require().ErrorIs(err, commands.ErrStayNotEnded)

		stored, _ := s.uow.Booking(rec.ID)
		s.Equal(booking.StatusConfirmed, stored.Status)
	})

	s.Run("error: pending booking cannot complete", func() {
		s.SetupTest()
		room := s.seedRoom()
		rec := s.seedBooking(room, booking.StatusPending, day(10), day(13))
		s.clock.Set(day(14))

		_, err := s.commands.Complete(context.Background(), rec.ID)
		s.Require().ErrorIs(err, commands.ErrInvalidStatusTransition)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.commands.Complete(context.Background(), uuid.New())
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})
}
