//go:build unit || e2e

package builder

import (
	"time"

	domuser "guesthouse-booking/internal/domain/user"
	reqdto "guesthouse-booking/internal/handler/dto/request"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID           uuid.UUID
	Email        string
	Password     string
	PasswordHash string
	Name         string
	Phone        string
	Role         domuser.Role
	IsActive     bool
	CreatedAt    time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "guest@example.com",
		Password: "password",
		// bcrypt hash of "password", cost 10
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Name:         "Test Guest",
		Phone:        "+81 90-1234-5678",
		Role:         domuser.RoleGuest,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Email = "admin@example.com"
	u.Name = "Administrator"
	u.Role = domuser.RoleAdmin
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}

func (u *UserBuilder) BuildDomain() (*domuser.User, error) {
	email, err := domuser.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	phone, err := domuser.NewPhone(u.Phone)
	if err != nil {
		return nil, err
	}
	return domuser.NewUser(email, u.PasswordHash, u.Name, phone, u.Role), nil
}

func (u *UserBuilder) BuildSnapshot() *shared.UserSnapshot {
	return &shared.UserSnapshot{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.String(),
		IsActive:     u.IsActive,
	}
}

func (u *UserBuilder) BuildView() *queries.UserView {
	phone := u.Phone
	return &queries.UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     &phone,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func (u *UserBuilder) BuildRegisterRequestDTO() reqdto.RegisterRequest {
	return reqdto.RegisterRequest{
		Email:    u.Email,
		Password: u.Password,
		Name:     u.Name,
		Phone:    u.Phone,
	}
}

func (u *UserBuilder) BuildLoginRequestDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    u.Email,
		Password: u.Password,
	}
}
