package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/room"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/pkg/clock"
	"guesthouse-booking/internal/pkg/errs"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound            = errs.New("room not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidStayPeriod       = errs.New("invalid stay period")
	ErrInvalidGuestCount       = errs.New("invalid guest count")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrInvalidStatusTransition = errs.New("invalid status transition")
	ErrStayNotEnded            = errs.New("stay has not ended yet")
	ErrBookingForbidden        = errs.New("booking belongs to another user")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ConflictError carries the bookings blocking a requested stay. It is always
// marked with ErrBookingConflict, so errors.Is works alongside errors.As.
type ConflictError struct {
	RoomID   uuid.UUID
	Blockers []shared.BookingBlocker
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.Blockers))
	for i, b := range e.Blockers {
		ids[i] = b.ID.String()
	}
	return fmt.Sprintf("room %s is already booked for the requested dates (blocked by %s)",
		e.RoomID, strings.Join(ids, ", "))
}

func newConflictError(roomID uuid.UUID, blockers []shared.BookingBlocker) error {
	return errs.Mark(&ConflictError{RoomID: roomID, Blockers: blockers}, ErrBookingConflict)
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error)
	Approve(ctx context.Context, bookingID uuid.UUID) (*TransitionResult, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor) (*TransitionResult, error)
	Complete(ctx context.Context, bookingID uuid.UUID) (*TransitionResult, error)
}

type bookingCommandsImpl struct {
	uow     shared.UnitOfWork
	factory *booking.Factory
	clock   clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, factory *booking.Factory, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		uow:     uow,
		factory: factory,
		clock:   clk,
	}
}

// Create admits a new booking in pending status. The overlap check and the
// insert run in one transaction holding the per-room lock, so concurrent
// admissions for the same room serialize and the loser sees the winner's row.
func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error) {
	stay, err := booking.NewStayPeriod(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStayPeriod)
	}

	var result CreateBookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		roomSnap, err := tx.Reads().RoomByID(ctx, params.RoomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		roomEntity, err := reconstructRoomSnapshot(roomSnap)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity, err := c.factory.CreateBooking(
			roomEntity,
			params.UserID,
			stay,
			params.Guests,
			params.PriceOverrideCents,
			booking.NewNote(params.Note),
		)
		if err != nil {
			return markFactoryError(err)
		}

		if err := tx.Bookings().LockRoom(ctx, tx.DB(), params.RoomID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		blockers, err := tx.Bookings().FindActiveOverlapping(ctx, tx.DB(), params.RoomID, stay, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(blockers) > 0 {
			return newConflictError(params.RoomID, blockers)
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			// Exclusion-constraint loser of a race the advisory lock did not
			// cover (e.g. a second instance without the lock path).
			if infra.IsKind(err, infra.KindConflict) {
				return newConflictError(params.RoomID, nil)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result.BookingID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Approve re-validates overlap freedom before confirming: the competing set
// may have changed since the booking was admitted. On conflict the booking
// stays pending; it is never silently cancelled.
func (c *bookingCommandsImpl) Approve(ctx context.Context, bookingID uuid.UUID) (*TransitionResult, error) {
	var result TransitionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := findBookingSnapshot(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		entity, err := reconstructBookingSnapshot(snap)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := entity.Confirm(); err != nil {
			return errs.Mark(err, ErrInvalidStatusTransition)
		}

		if err := tx.Bookings().LockRoom(ctx, tx.DB(), snap.RoomID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		blockers, err := tx.Bookings().FindActiveOverlapping(ctx, tx.DB(), snap.RoomID, entity.Stay(), &snap.ID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(blockers) > 0 {
			return newConflictError(snap.RoomID, blockers)
		}

		if err := transitionStatus(ctx, tx, snap, booking.StatusConfirmed); err != nil {
			return err
		}

		result = TransitionResult{BookingID: snap.ID, Status: booking.StatusConfirmed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Cancel needs no overlap re-check: removing a booking from the active set
// cannot create a conflict. Cancelling an already cancelled booking is a
// no-op success.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor) (*TransitionResult, error) {
	var result TransitionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := findBookingSnapshot(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() && snap.UserID != actor.ID {
			return ErrBookingForbidden
		}

		entity, err := reconstructBookingSnapshot(snap)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		alreadyCancelled := entity.Status() == booking.StatusCancelled
		if err := entity.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidStatusTransition)
		}

		if !alreadyCancelled {
			if err := transitionStatus(ctx, tx, snap, booking.StatusCancelled); err != nil {
				return err
			}
		}

		result = TransitionResult{BookingID: snap.ID, Status: booking.StatusCancelled}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, bookingID uuid.UUID) (*TransitionResult, error) {
	var result TransitionResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := findBookingSnapshot(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		entity, err := reconstructBookingSnapshot(snap)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := entity.Complete(c.clock.Now()); err != nil {
			if errors.Is(err, booking.ErrStayNotEnded) {
				return errs.Mark(err, ErrStayNotEnded)
			}
			return errs.Mark(err, ErrInvalidStatusTransition)
		}

		if err := transitionStatus(ctx, tx, snap, booking.StatusCompleted); err != nil {
			return err
		}

		result = TransitionResult{BookingID: snap.ID, Status: booking.StatusCompleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// transitionStatus persists a transition as a compare-and-set against the
// status the snapshot was read at. Cancel does not take the room lock, so a
// cancellation may commit while an approval is between its snapshot read and
// its write; the miss surfaces here and the stale transition is rejected
// instead of resurrecting the booking.
func transitionStatus(ctx context.Context, tx shared.Tx, snap *shared.BookingSnapshot, to booking.Status) error {
	if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), snap.ID, snap.Status, to); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, ErrInvalidStatusTransition)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func findBookingSnapshot(ctx context.Context, tx shared.Tx, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, err := tx.Reads().BookingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snap, nil
}

func reconstructRoomSnapshot(snap *shared.RoomSnapshot) (*room.Room, error) {
	roomType, err := room.NewType(snap.RoomType)
	if err != nil {
		return nil, err
	}
	return room.NewRoom(snap.ID, snap.Name, roomType, snap.NightlyRateCents, snap.MaxGuests)
}

// reconstructBookingSnapshot rebuilds just enough of the entity to run the
// state machine; price and note are not needed for transitions.
func reconstructBookingSnapshot(snap *shared.BookingSnapshot) (*booking.Booking, error) {
	stay, err := booking.NewStayPeriod(snap.CheckIn, snap.CheckOut)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		snap.ID, snap.RoomID, snap.UserID,
		stay, snap.Guests, snap.Status,
		booking.Money{}, booking.Note{},
		snap.CreatedAt, snap.CreatedAt,
	), nil
}

func markFactoryError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidGuestCount), errors.Is(err, booking.ErrCapacityExceeded):
		return errs.Mark(err, ErrInvalidGuestCount)
	case errors.Is(err, booking.ErrInvalidStayPeriod):
		return errs.Mark(err, ErrInvalidStayPeriod)
	default:
		return errs.Mark(err, ErrInvalidGuestCount)
	}
}
