package queries

import (
	"context"

	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type RoomQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RoomView, error)
	List(ctx context.Context) ([]*RoomView, error)
}

type roomQueriesImpl struct {
	rooms RoomReadStore
}

func NewRoomQueries(rooms RoomReadStore) RoomQueries {
	return &roomQueriesImpl{rooms: rooms}
}

func (q *roomQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*RoomView, error) {
	view, err := q.rooms.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}

func (q *roomQueriesImpl) List(ctx context.Context) ([]*RoomView, error) {
	views, err := q.rooms.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}
