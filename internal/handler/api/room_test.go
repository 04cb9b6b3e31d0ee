//go:build unit

package api_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"guesthouse-booking/internal/handler/api"
	resdto "guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/internal/usecase/queries"
	"guesthouse-booking/tests/common/builder"
	"guesthouse-booking/tests/common/httptest"
	queriesmock "guesthouse-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RoomHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCtrl           *gomock.Controller
	mockRoomQueries    *queriesmock.MockRoomQueries
	mockBookingQueries *queriesmock.MockBookingQueries
	handler            *api.RoomHandler
}

func (s *RoomHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoomQueries = queriesmock.NewMockRoomQueries(s.mockCtrl)
	s.mockBookingQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewRoomHandler(s.mockRoomQueries, s.mockBookingQueries)

	s.router.GET("/rooms", s.handler.ListRooms)
	s.router.GET("/rooms/:id", s.handler.GetRoom)
	s.router.GET("/rooms/:id/availability", s.handler.CheckAvailability)
}

func (s *RoomHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRoomHandlerSuite(t *testing.T) {
	suite.Run(t, new(RoomHandlerTestSuite))
}

func (s *RoomHandlerTestSuite) TestListRooms() {
	s.Run("success: returns 200 OK with all rooms", func() {
		views := []*queries.RoomView{
			builder.NewRoomBuilder().BuildView(),
			builder.NewRoomBuilder().AsDeluxe().BuildView(),
		}
		s.mockRoomQueries.EXPECT().List(gomock.Any()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms", nil, "")

		var response []resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("standard", response[0].RoomType)
		s.Equal("deluxe", response[1].RoomType)
	})
}

func (s *RoomHandlerTestSuite) TestGetRoom() {
	returnView := builder.NewRoomBuilder().BuildView()
	url := "/rooms/" + returnView.ID.String()

	s.Run("success: returns 200 OK with RoomResponse", func() {
		s.mockRoomQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.NightlyRateCents, response.NightlyRateCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/invalid-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid room ID")
	})

	s.Run("error: 404 Not Found for missing room", func() {
		s.mockRoomQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(nil, queries.ErrRoomNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}

func (s *RoomHandlerTestSuite) TestCheckAvailability() {
	roomID := uuid.New()
	checkIn := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	availabilityURL := func(roomID uuid.UUID, checkIn, checkOut string) string {
		q := url.Values{}
		if checkIn != "" {
			q.Set("check_in", checkIn)
		}
		if checkOut != "" {
			q.Set("check_out", checkOut)
		}
		return "/rooms/" + roomID.String() + "/availability?" + q.Encode()
	}

	s.Run("success: room is free", func() {
		s.mockBookingQueries.EXPECT().CheckAvailability(gomock.Any(), roomID, checkIn, checkOut).
			Return(&queries.AvailabilityResult{Available: true, Blockers: []queries.BlockerView{}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			availabilityURL(roomID, checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339)), nil, "")

		var response resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Available)
		s.Empty(response.Blockers)
	})

	s.Run("success: room is taken and the blockers are reported", func() {
		blockers := []queries.BlockerView{{
			ID:       uuid.New(),
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Status:   "confirmed",
		}}
		s.mockBookingQueries.EXPECT().CheckAvailability(gomock.Any(), roomID, checkIn, checkOut).
			Return(&queries.AvailabilityResult{Available: false, Blockers: blockers}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			availabilityURL(roomID, checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339)), nil, "")

		var response resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Available)
		s.Require().Len(response.Blockers, 1)
		s.Equal("confirmed", response.Blockers[0].Status)
	})

	s.Run("error: 400 for missing query parameters", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			availabilityURL(roomID, checkIn.Format(time.RFC3339), ""), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "check_in and check_out")
	})

	s.Run("error: 400 when check-in is not before check-out", func() {
		s.mockBookingQueries.EXPECT().CheckAvailability(gomock.Any(), roomID, checkOut, checkIn).
			Return(nil, queries.ErrInvalidStayPeriod).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			availabilityURL(roomID, checkOut.Format(time.RFC3339), checkIn.Format(time.RFC3339)), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Check-in must be before check-out")
	})

	s.Run("error: 404 for unknown room", func() {
		s.mockBookingQueries.EXPECT().CheckAvailability(gomock.Any(), roomID, checkIn, checkOut).
			Return(nil, queries.ErrRoomNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			availabilityURL(roomID, checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339)), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}
