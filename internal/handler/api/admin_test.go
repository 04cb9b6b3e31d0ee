//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/handler/api"
	resdto "guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/internal/usecase/shared"
	"guesthouse-booking/tests/common/builder"
	"guesthouse-booking/tests/common/httptest"
	commandsmock "guesthouse-booking/tests/mock/commands"
	queriesmock "guesthouse-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	mockUsers    *queriesmock.MockUserQueries
	handler      *api.AdminHandler
	adminID      uuid.UUID
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.mockUsers = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAdminHandler(s.mockCommands, s.mockQueries, s.mockUsers)
	s.adminID = uuid.New()

	// Mock admin auth middleware for testing
	adminMiddleware := func(c *gin.Context) {
		switch c.GetHeader("Authorization") {
		case "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		case "Bearer guest-token":
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set("user_id", s.adminID)
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	s.router.GET("/admin/users", adminMiddleware, s.handler.ListUsers)
	s.router.GET("/admin/bookings", adminMiddleware, s.handler.ListBookings)
	s.router.GET("/admin/bookings/pending/count", adminMiddleware, s.handler.CountPending)
	s.router.POST("/admin/bookings/:id/approve", adminMiddleware, s.handler.ApproveBooking)
	s.router.POST("/admin/bookings/:id/reject", adminMiddleware, s.handler.RejectBooking)
	s.router.POST("/admin/bookings/:id/complete", adminMiddleware, s.handler.CompleteBooking)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

// ================================================================================
// TestApproveBooking
// ================================================================================

func (s *AdminHandlerTestSuite) TestApproveBooking() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed)
	returnView := bb.BuildView()
	url := "/admin/bookings/" + returnView.ID.String() + "/approve"

	s.Run("success: returns 200 OK with the confirmed booking", func() {
		s.mockCommands.EXPECT().Approve(gomock.Any(), returnView.ID).
			Return(&commands.TransitionResult{BookingID: returnView.ID, Status: booking.StatusConfirmed}, nil).Times(1)
		s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 409 Conflict when a competing booking appeared", func() {
		blocker := builder.NewBookingBuilder()
		conflict := &commands.ConflictError{
			RoomID: bb.Room.ID,
			Blockers: []shared.BookingBlocker{{
				ID:       blocker.ID,
				CheckIn:  blocker.CheckIn,
				CheckOut: blocker.CheckOut,
				Status:   booking.StatusConfirmed,
			}},
		}
		s.mockCommands.EXPECT().Approve(gomock.Any(), returnView.ID).
			Return(nil, conflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already booked")
	})

	s.Run("error: 422 for a booking that is not pending", func() {
		s.mockCommands.EXPECT().Approve(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrInvalidStatusTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "transition")
	})

	s.Run("error: 404 for unknown booking", func() {
		s.mockCommands.EXPECT().Approve(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 400 for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/bookings/nope/approve", nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 403 for non-admin callers", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "guest-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Admin access required")
	})
}

// ================================================================================
// TestRejectBooking
// ================================================================================

func (s *AdminHandlerTestSuite) TestRejectBooking() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled)
	returnView := bb.BuildView()
	url := "/admin/bookings/" + returnView.ID.String() + "/reject"

	s.Run("success: rejection lands the booking in cancelled", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), returnView.ID, commands.Actor{ID: s.adminID, Role: user.RoleAdmin}).
			Return(&commands.TransitionResult{BookingID: returnView.ID, Status: booking.StatusCancelled}, nil).Times(1)
		s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 422 for a completed stay", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), returnView.ID, gomock.Any()).
			Return(nil, commands.ErrInvalidStatusTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "transition")
	})
}

// ================================================================================
// TestCompleteBooking
// ================================================================================

func (s *AdminHandlerTestSuite) TestCompleteBooking() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusCompleted)
	returnView := bb.BuildView()
	url := "/admin/bookings/" + returnView.ID.String() + "/complete"

	s.Run("success: returns 200 OK with the completed booking", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), returnView.ID).
			Return(&commands.TransitionResult{BookingID: returnView.ID, Status: booking.StatusCompleted}, nil).Times(1)
		s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Status)
	})

	s.Run("error: 422 before the stay has ended", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), returnView.ID).
			Return(nil, commands.ErrStayNotEnded).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "not ended")
	})
}

// ================================================================================
// TestListBookings
// ================================================================================

func (s *AdminHandlerTestSuite) TestListBookings() {
	url := "/admin/bookings"

	s.Run("success: lists every booking without a filter", func() {
		items := []*queries.BookingListItem{
			builder.NewBookingBuilder().BuildListItem(),
			builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed).BuildListItem(),
		}
		s.mockQueries.EXPECT().ListByStatus(gomock.Any(), gomock.Nil()).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "admin-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("success: filters by status", func() {
		pending := booking.StatusPending
		items := []*queries.BookingListItem{builder.NewBookingBuilder().BuildListItem()}
		s.mockQueries.EXPECT().ListByStatus(gomock.Any(), &pending).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?status=pending", nil, "admin-token")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("error: 400 for unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?status=archived", nil, "admin-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unknown booking status")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestCountPending
// ================================================================================

func (s *AdminHandlerTestSuite) TestCountPending() {
	url := "/admin/bookings/pending/count"

	s.Run("success: returns the pending count", func() {
		s.mockQueries.EXPECT().CountPending(gomock.Any()).
			Return(int64(7), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "admin-token")

		var response resdto.PendingCountResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(7), response.Count)
	})
}

// ================================================================================
// TestListUsers
// ================================================================================

func (s *AdminHandlerTestSuite) TestListUsers() {
	url := "/admin/users"

	s.Run("success: returns all users", func() {
		views := []*queries.UserView{
			builder.NewUserBuilder().WithEmail("guest@example.com").BuildView(),
			builder.NewUserBuilder().WithEmail("admin@example.com").AsAdmin().BuildView(),
		}
		s.mockUsers.EXPECT().List(gomock.Any()).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "admin-token")

		var response []*queries.UserView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("guest@example.com", response[0].Email)
	})

	s.Run("error: 403 Forbidden for non-admin token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "guest-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Admin access required")
	})
}
