//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/handler/dto/request"
	"guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/tests/common/authtest"
	"guesthouse-booking/tests/common/dbtest"
	"guesthouse-booking/tests/common/httptest"
	"guesthouse-booking/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type AuthSuite struct {
	e2e.SharedSuite
}

func (s *AuthSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AuthSuite))
}

// =============================================================================
// TestRegister - Account registration API tests
// =============================================================================

func (s *AuthSuite) TestRegister() {
	s.Run("Normal case: New account registers and can log in", func() {
		t := s.T()

		reqBody := request.RegisterRequest{
			Email:    "fresh@example.com",
			Password: "fresh-password",
			Name:     "Fresh Guest",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var registered response.RegisterResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &registered))
		require.NotNil(t, registered.User)
		require.Equal(t, "fresh@example.com", registered.User.Email)

		token := authtest.LoginUser(t, s.Router, "fresh@example.com", "fresh-password")
		require.NotEmpty(t, token)
	})

	s.Run("Error case: Duplicate email is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "taken@example.com", string(user.RoleGuest))

		reqBody := request.RegisterRequest{
			Email:    "taken@example.com",
			Password: "another-password",
			Name:     "Second Guest",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Error case: Short password is rejected", func() {
		t := s.T()

		reqBody := request.RegisterRequest{
			Email:    "short@example.com",
			Password: "short",
			Name:     "Short Password",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

// =============================================================================
// TestLogin - Login API tests
// =============================================================================

func (s *AuthSuite) TestLogin() {
	s.Run("Integration: Login outcome grid", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "active@example.com", string(user.RoleGuest))
		inactiveID := dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleGuest))
		_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE id = $1", inactiveID)
		require.NoError(t, err)

		tests := []struct {
			name           string
			email          string
			password       string
			expectedStatus int
		}{
			{"valid credentials", "active@example.com", dbtest.TestUserPassword, http.StatusOK},
			{"unknown user", "nobody@example.com", dbtest.TestUserPassword, http.StatusUnauthorized},
			{"wrong password", "active@example.com", "wrong-password", http.StatusUnauthorized},
			{"inactive account", "inactive@example.com", dbtest.TestUserPassword, http.StatusForbidden},
			{"missing email", "", dbtest.TestUserPassword, http.StatusBadRequest},
		}

		for _, tt := range tests {
			reqBody := request.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, "%s: %s", tt.name, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &loginRes))
				require.NotEmpty(t, loginRes.AccessToken)
				require.Equal(t, tt.email, loginRes.User.Email)

				accessCookie := httptest.ExtractCookie(w, "access_token")
				require.NotNil(t, accessCookie)
				require.True(t, accessCookie.HttpOnly)
				refreshCookie := httptest.ExtractCookie(w, "refresh_token")
				require.NotNil(t, refreshCookie)

				// last_login is stamped on successful login.
				var lastLogin any
				err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin)
			}
		}
	})
}

// =============================================================================
// TestRefresh - Token refresh API tests
// =============================================================================

func (s *AuthSuite) TestRefresh() {
	s.Run("Normal case: Refresh cookie yields a new access token", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "refresh@example.com", string(user.RoleGuest))
		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "refresh@example.com", Password: dbtest.TestUserPassword}, "")
		require.Equal(t, http.StatusOK, lw.Code, lw.Body.String())

		refreshCookie := httptest.ExtractCookie(lw, "refresh_token")
		require.NotNil(t, refreshCookie)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil,
			[]*http.Cookie{refreshCookie}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var refreshRes response.RefreshResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &refreshRes))
		require.NotEmpty(t, refreshRes.AccessToken)
	})

	s.Run("Error case: Missing and garbage tokens are rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: "not-a-token"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestLogoutAndMe - Session endpoints behind authentication
// =============================================================================

func (s *AuthSuite) TestLogoutAndMe() {
	s.Run("Normal case: Me returns the logged-in profile", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "profile@example.com", string(user.RoleGuest))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "profile@example.com")
		require.NotContains(t, w.Body.String(), "password")
	})

	s.Run("Normal case: Logout clears session cookies", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "leaver@example.com", string(user.RoleGuest))
		lw := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "leaver@example.com", Password: dbtest.TestUserPassword}, "")
		require.Equal(t, http.StatusOK, lw.Code)

		authtest.LogoutUser(t, s.Router, lw.Result().Cookies())
	})

	s.Run("Error case: Expired token is rejected", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "expired@example.com", string(user.RoleGuest))
		expired := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, userID, user.RoleGuest)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Auth test - Both endpoints require authentication", func() {
		t := s.T()

		for _, ep := range []struct {
			method string
			path   string
		}{
			{http.MethodPost, logoutURL},
			{http.MethodGet, meURL},
		} {
			w := httptest.PerformRequest(t, s.Router, ep.method, ep.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, ep.path)
		}
	})
}
