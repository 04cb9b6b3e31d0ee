package readstore

import (
	"context"
	"time"

	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/pkg/pgconv"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct {
	dbtx db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{dbtx: dbtx}
}

const userViewSQL = `
SELECT id, email, name, phone, role, is_active, last_login, created_at
FROM users
`

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	var v queries.UserView
	var phone pgtype.Text
	var lastLogin pgtype.Timestamptz

	err := s.dbtx.QueryRow(ctx, userViewSQL+"WHERE id = $1", id).Scan(
		&v.ID, &v.Email, &v.Name, &phone, &v.Role, &v.IsActive, &lastLogin, &v.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	v.Phone = pgconv.StringPtrFromPgtype(phone)
	v.LastLogin = timePtrFromPgtype(lastLogin)
	return &v, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	var v queries.UserView
	var hash string
	var phone pgtype.Text
	var lastLogin pgtype.Timestamptz

	err := s.dbtx.QueryRow(ctx,
		`SELECT id, email, name, phone, role, is_active, last_login, created_at, password_hash
		 FROM users WHERE email = $1`, email).Scan(
		&v.ID, &v.Email, &v.Name, &phone, &v.Role, &v.IsActive, &lastLogin, &v.CreatedAt, &hash,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user", err)
	}

	v.Phone = pgconv.StringPtrFromPgtype(phone)
	v.LastLogin = timePtrFromPgtype(lastLogin)
	return &v, hash, nil
}

func (s *UserReadStore) FindAll(ctx context.Context) ([]*queries.UserView, error) {
	rows, err := s.dbtx.Query(ctx, userViewSQL+"ORDER BY created_at")
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	views := []*queries.UserView{}
	for rows.Next() {
		var v queries.UserView
		var phone pgtype.Text
		var lastLogin pgtype.Timestamptz
		err := rows.Scan(&v.ID, &v.Email, &v.Name, &phone, &v.Role, &v.IsActive, &lastLogin, &v.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan user", err)
		}
		v.Phone = pgconv.StringPtrFromPgtype(phone)
		v.LastLogin = timePtrFromPgtype(lastLogin)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read users", err)
	}

	return views, nil
}

func (s *UserReadStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.dbtx.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count users", err)
	}
	return count, nil
}

func timePtrFromPgtype(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	ts := t.Time
	return &ts
}
