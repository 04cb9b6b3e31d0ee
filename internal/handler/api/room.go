package api

import (
	"errors"
	"net/http"

	"guesthouse-booking/internal/handler/dto/request"
	"guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	roomQueries    queries.RoomQueries
	bookingQueries queries.BookingQueries
}

func NewRoomHandler(roomQueries queries.RoomQueries, bookingQueries queries.BookingQueries) *RoomHandler {
	return &RoomHandler{
		roomQueries:    roomQueries,
		bookingQueries: bookingQueries,
	}
}

// @Summary List rooms
// @Tags rooms
// @Produce json
// @Success 200 {array} response.RoomResponse
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	views, err := h.roomQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, response.FromRoomList(views))
}

// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.RoomResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	view, err := h.roomQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response.FromRoomView(view))
}

// @Summary Check room availability
// @Description Advisory availability probe for a stay. A positive answer is
// @Description not a hold: admission re-checks under the room lock.
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param check_in query string true "Check-in (RFC 3339)"
// @Param check_out query string true "Check-out (RFC 3339)"
// @Success 200 {object} response.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/availability [get]
func (h *RoomHandler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	var q request.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "check_in and check_out are required RFC 3339 timestamps",
		})
		return
	}

	result, err := h.bookingQueries.CheckAvailability(c.Request.Context(), id, q.CheckIn, q.CheckOut)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidStayPeriod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Check-in must be before check-out",
			})
		case errors.Is(err, queries.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response.FromAvailabilityResult(result))
}
