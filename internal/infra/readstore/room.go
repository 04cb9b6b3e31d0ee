package readstore

import (
	"context"

	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/pkg/pgconv"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type RoomReadStore struct {
	dbtx db.DBTX
}

func NewRoomReadStore(dbtx db.DBTX) *RoomReadStore {
	return &RoomReadStore{dbtx: dbtx}
}

const roomViewSQL = `
SELECT id, name, room_type, nightly_rate_cents, max_guests,
       description, amenities, room_number, created_at, updated_at
FROM rooms
`

func (s *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	row := s.dbtx.QueryRow(ctx, roomViewSQL+"WHERE id = $1", id)

	view, err := scanRoomView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room", err)
	}
	return view, nil
}

func (s *RoomReadStore) FindAll(ctx context.Context) ([]*queries.RoomView, error) {
	rows, err := s.dbtx.Query(ctx, roomViewSQL+"ORDER BY room_type, name")
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()

	views := []*queries.RoomView{}
	for rows.Next() {
		view, err := scanRoomView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan room", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read rooms", err)
	}

	return views, nil
}

func scanRoomView(row pgx.Row) (*queries.RoomView, error) {
	var v queries.RoomView
	var description, roomNumber pgtype.Text
	err := row.Scan(
		&v.ID, &v.Name, &v.RoomType, &v.NightlyRateCents, &v.MaxGuests,
		&description, &v.Amenities, &roomNumber, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Description = pgconv.StringPtrFromPgtype(description)
	v.RoomNumber = pgconv.StringPtrFromPgtype(roomNumber)
	return &v, nil
}
