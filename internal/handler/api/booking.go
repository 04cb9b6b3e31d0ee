package api

import (
	"errors"
	"net/http"

	"guesthouse-booking/internal/handler/dto/request"
	"guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/internal/handler/middleware"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Request a stay. The booking starts in pending status and
// @Description needs admin approval before it is confirmed.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateBookingRequest true "Booking request"
// @Success 201 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.Create(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	view, err := h.bookingQueries.GetByIDSystem(c.Request.Context(), result.BookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, response.FromBookingView(view))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	view, err := h.bookingQueries.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, queries.ErrBookingForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Booking belongs to another user",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response.FromBookingView(view))
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.bookingQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, response.FromBookingList(items))
}

// @Summary Cancel booking
// @Description Guests cancel their own bookings; admins can cancel any.
// @Description Cancelling an already-cancelled booking succeeds unchanged.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	result, err := h.bookingCommands.Cancel(c.Request.Context(), id, commands.Actor{ID: userID, Role: role})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	view, err := h.bookingQueries.GetByIDSystem(c.Request.Context(), result.BookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, response.FromBookingView(view))
}

func respondBookingError(c *gin.Context, err error) {
	var conflict *commands.ConflictError

	switch {
	case errors.Is(err, commands.ErrInvalidStayPeriod):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Check-in must be before check-out",
		})
	case errors.Is(err, commands.ErrInvalidGuestCount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Guest count exceeds room capacity or is below one",
		})
	case errors.Is(err, commands.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Room not found",
		})
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, commands.ErrBookingForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Booking belongs to another user",
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "Room is already booked for the requested dates",
			"blockers": blockerDetails(conflict),
		})
	case errors.Is(err, commands.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Room is already booked for the requested dates",
		})
	case errors.Is(err, commands.ErrStayNotEnded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Stay has not ended yet",
		})
	case errors.Is(err, commands.ErrInvalidStatusTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking status does not allow this transition",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func blockerDetails(conflict *commands.ConflictError) []response.BlockerResponse {
	out := make([]response.BlockerResponse, 0, len(conflict.Blockers))
	for _, b := range conflict.Blockers {
		out = append(out, response.BlockerResponse{
			ID:       b.ID,
			CheckIn:  b.CheckIn,
			CheckOut: b.CheckOut,
			Status:   b.Status.String(),
		})
	}
	return out
}
