package repository

import (
	"context"

	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const createUserSQL = `
INSERT INTO users (id, email, password_hash, name, phone, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING id
`

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createUserSQL,
		u.ID(), u.Email().Value(), u.PasswordHash(),
		u.Name(), pgconv.StringToPgtype(u.Phone().Value()),
		u.Role().String(), u.IsActive(),
	).Scan(&id)
	if err != nil {
		// Unique violations on email surface as KindDuplicateKey.
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}

	return id, nil
}

const updateLastLoginSQL = `
UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1
`

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, updateLastLoginSQL, userID); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
