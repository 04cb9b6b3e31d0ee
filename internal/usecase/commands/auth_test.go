//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/pkg/jwt"
	"guesthouse-booking/internal/pkg/password"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/tests/common/builder"
	"guesthouse-booking/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// fakeUserReadStore backs the credential lookup with an in-memory map.
type fakeUserReadStore struct {
	views  map[string]*queries.UserView
	hashes map[string]string
}

func newFakeUserReadStore() *fakeUserReadStore {
	return &fakeUserReadStore{
		views:  make(map[string]*queries.UserView),
		hashes: make(map[string]string),
	}
}

func (f *fakeUserReadStore) add(view *queries.UserView, hash string) {
	f.views[view.Email] = view
	f.hashes[view.Email] = hash
}

func (f *fakeUserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	for _, v := range f.views {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (f *fakeUserReadStore) FindByEmail(_ context.Context, email string) (*queries.UserView, string, error) {
	view, ok := f.views[email]
	if !ok {
		return nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return view, f.hashes[email], nil
}

func (f *fakeUserReadStore) FindAll(_ context.Context) ([]*queries.UserView, error) {
	views := make([]*queries.UserView, 0, len(f.views))
	for _, v := range f.views {
		views = append(views, v)
	}
	return views, nil
}

func (f *fakeUserReadStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.views)), nil
}

type AuthCommandsTestSuite struct {
	suite.Suite
	uow        *fake.UoW
	readStore  *fakeUserReadStore
	jwtService *jwt.Service
	commands   commands.AuthCommands
}

func (s *AuthCommandsTestSuite) SetupTest() {
	s.uow = fake.NewUoW()
	s.readStore = newFakeUserReadStore()
	s.jwtService = jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	s.commands = commands.NewAuthCommands(s.uow, s.readStore, s.jwtService)
}

func TestAuthCommandsSuite(t *testing.T) {
	suite.Run(t, new(AuthCommandsTestSuite))
}

func (s *AuthCommandsTestSuite) seedUser(mutate func(*builder.UserBuilder)) *builder.UserBuilder {
	u := builder.NewUserBuilder()
	if mutate != nil {
		mutate(u)
	}
	hash, err := password.HashPassword(u.Password)
	s.Require().NoError(err)
	u.PasswordHash = hash

	s.readStore.add(u.BuildView(), hash)
	s.uow.AddUser(*u.BuildSnapshot())
	return u
}

func (s *AuthCommandsTestSuite) TestRegister() {
	params := commands.RegisterParams{
		Email:    "new.guest@example.com",
		Password: "password",
		Name:     "New Guest",
		Phone:    "+81 90-0000-1111",
	}

	s.Run("success: creates a guest account", func() {
		s.SetupTest()
		result, err := s.commands.Register(context.Background(), params)
		s.Require().NoError(err)
		s.NotEqual(uuid.Nil, result.UserID)
	})

	s.Run("error: duplicate email", func() {
		s.SetupTest()
		_, err := s.commands.Register(context.Background(), params)
		s.Require().NoError(err)

		_, err = s.commands.Register(context.Background(), params)
		s.Require().ErrorIs(err, commands.ErrEmailAlreadyUsed)
	})

	s.Run("error: malformed email", func() {
		s.SetupTest()
		bad := params
		bad.Email = "not-an-email"
		_, err := s.commands.Register(context.Background(), bad)
		s.Require().ErrorIs(err, commands.ErrInvalidUserInput)
	})

	s.Run("error: short password", func() {
		s.SetupTest()
		bad := params
		bad.Password = "short"
		_, err := s.commands.Register(context.Background(), bad)
		s.Require().ErrorIs(err, commands.ErrInvalidUserInput)
	})

	s.Run("error: missing name", func() {
		s.SetupTest()
		bad := params
		bad.Name = ""
		_, err := s.commands.Register(context.Background(), bad)
		s.Require().ErrorIs(err, commands.ErrInvalidUserInput)
	})
}

func (s *AuthCommandsTestSuite) TestLogin() {
	s.Run("success: issues an access and refresh token pair", func() {
		s.SetupTest()
		u := s.seedUser(nil)

		result, err := s.commands.Login(context.Background(), u.Email, u.Password)
		s.Require().NoError(err)
		s.Equal(u.ID, result.UserID)
		s.NotEmpty(result.TokenPair.AccessToken)
		s.NotEmpty(result.TokenPair.RefreshToken)

		claims, err := s.jwtService.ValidateToken(result.TokenPair.AccessToken)
		s.Require().NoError(err)
		s.Equal(u.ID, claims.UserID)
		s.Equal(jwt.TokenTypeAccess, claims.TokenType)
	})

	s.Run("error: wrong password", func() {
		s.SetupTest()
		u := s.seedUser(nil)

		_, err := s.commands.Login(context.Background(), u.Email, "wrong-password")
		s.Require().ErrorIs(err, commands.ErrInvalidCredentials)
	})

	s.Run("error: unknown email reads like bad credentials", func() {
		s.SetupTest()
		_, err := s.commands.Login(context.Background(), "nobody@example.com", "password")
		s.Require().ErrorIs(err, commands.ErrInvalidCredentials)
	})

	s.Run("error: deactivated account", func() {
		s.SetupTest()
		u := s.seedUser(func(b *builder.UserBuilder) { b.AsInactive() })

		_, err := s.commands.Login(context.Background(), u.Email, u.Password)
		s.Require().ErrorIs(err, commands.ErrUserInactive)
	})
}

func (s *AuthCommandsTestSuite) TestRefreshToken() {
	s.Run("success: re-issues a pair from a refresh token", func() {
		s.SetupTest()
		u := s.seedUser(nil)
		refresh, err := s.jwtService.GenerateRefreshToken(u.ID, user.RoleGuest)
		s.Require().NoError(err)

		pair, err := s.commands.RefreshToken(context.Background(), refresh)
		s.Require().NoError(err)
		s.NotEmpty(pair.AccessToken)
		s.NotEmpty(pair.RefreshToken)
	})

	s.Run("error: access token is not accepted as refresh token", func() {
		s.SetupTest()
		u := s.seedUser(nil)
		access, err := s.jwtService.GenerateAccessToken(u.ID, user.RoleGuest)
		s.Require().NoError(err)

		_, err = s.commands.RefreshToken(context.Background(), access)
		s.Require().ErrorIs(err, commands.ErrTokenValidation)
	})

	s.Run("error: garbage token", func() {
		s.SetupTest()
		_, err := s.commands.RefreshToken(context.Background(), "not-a-token")
		s.Require().ErrorIs(err, commands.ErrTokenValidation)
	})

	s.Run("error: token for a deleted user", func() {
		s.SetupTest()
		refresh, err := s.jwtService.GenerateRefreshToken(uuid.New(), user.RoleGuest)
		s.Require().NoError(err)

		_, err = s.commands.RefreshToken(context.Background(), refresh)
		s.Require().ErrorIs(err, commands.ErrUserNotFound)
	})

	s.Run("error: token for a deactivated user", func() {
		s.SetupTest()
		u := s.seedUser(func(b *builder.UserBuilder) { b.AsInactive() })
		refresh, err := s.jwtService.GenerateRefreshToken(u.ID, user.RoleGuest)
		s.Require().NoError(err)

		_, err = s.commands.RefreshToken(context.Background(), refresh)
		s.Require().ErrorIs(err, commands.ErrUserInactive)
	})
}
