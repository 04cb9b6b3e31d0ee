package queries

import (
	"context"
	"time"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errs.New("booking not found")
	ErrRoomNotFound      = errs.New("room not found")
	ErrBookingForbidden  = errs.New("booking belongs to another user")
	ErrInvalidStayPeriod = errs.New("invalid stay period")
	ErrQueryFailed       = errs.New("query failed")
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	FindByStatus(ctx context.Context, status string) ([]*BookingListItem, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]BlockerView, error)
}

type RoomReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RoomView, error)
	FindAll(ctx context.Context) ([]*RoomView, error)
}

type BookingQueries interface {
	// GetByID enforces ownership: guests see only their own bookings,
	// admins see everything.
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the ownership check. For internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	ListByStatus(ctx context.Context, status *booking.Status) ([]*BookingListItem, error)
	CountPending(ctx context.Context) (int64, error)
	// CheckAvailability is advisory only: a positive answer can go stale the
	// moment it is returned, and admission re-validates under the room lock.
	CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (*AvailabilityResult, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	rooms    RoomReadStore
}

func NewBookingQueries(bookings BookingReadStore, rooms RoomReadStore) BookingQueries {
	return &bookingQueriesImpl{
		bookings: bookings,
		rooms:    rooms,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorRole.IsAdmin() && view.UserID != actorID {
		return nil, ErrBookingForbidden
	}

	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error) {
	items, err := q.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func (q *bookingQueriesImpl) ListByStatus(ctx context.Context, status *booking.Status) ([]*BookingListItem, error) {
	s := ""
	if status != nil {
		s = status.String()
	}
	items, err := q.bookings.FindByStatus(ctx, s)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func (q *bookingQueriesImpl) CountPending(ctx context.Context) (int64, error) {
	count, err := q.bookings.CountByStatus(ctx, booking.StatusPending.String())
	if err != nil {
		return 0, errs.Mark(err, ErrQueryFailed)
	}
	return count, nil
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (*AvailabilityResult, error) {
	if _, err := booking.NewStayPeriod(checkIn, checkOut); err != nil {
		return nil, errs.Mark(err, ErrInvalidStayPeriod)
	}

	if _, err := q.rooms.FindByID(ctx, roomID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	blockers, err := q.bookings.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return &AvailabilityResult{
		Available: len(blockers) == 0,
		Blockers:  blockers,
	}, nil
}
