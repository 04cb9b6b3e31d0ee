package api

import (
	"context"
	"net/http"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/handler/dto/response"
	"guesthouse-booking/internal/handler/middleware"
	"guesthouse-booking/internal/usecase/commands"
	"guesthouse-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	userQueries     queries.UserQueries
}

func NewAdminHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries, userQueries queries.UserQueries) *AdminHandler {
	return &AdminHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		userQueries:     userQueries,
	}
}

// @Summary Approve booking
// @Description Confirm a pending booking. Overlap freedom is re-checked
// @Description under the room lock before the transition commits.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/approve [post]
func (h *AdminHandler) ApproveBooking(c *gin.Context) {
	h.transition(c, h.bookingCommands.Approve)
}

// @Summary Reject booking
// @Description Reject a pending booking. Rejection is a cancellation made
// @Description by an admin; the booking ends up cancelled either way.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/reject [post]
func (h *AdminHandler) RejectBooking(c *gin.Context) {
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

	h.respondWithView(c, result.BookingID)
}

// @Summary Complete booking
// @Description Mark a confirmed booking as completed after checkout.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/complete [post]
func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.bookingCommands.Complete)
}

// @Summary List bookings
// @Description List all bookings, optionally filtered by status.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending|confirmed|cancelled|completed)"
// @Success 200 {array} response.BookingListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	var status *booking.Status
	if raw := c.Query("status"); raw != "" {
		s, err := booking.NewStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown booking status",
			})
			return
		}
		status = &s
	}

	items, err := h.bookingQueries.ListByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, response.FromBookingList(items))
}

// @Summary Count pending bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.PendingCountResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/bookings/pending/count [get]
func (h *AdminHandler) CountPending(c *gin.Context) {
	count, err := h.bookingQueries.CountPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, response.PendingCountResponse{Count: count})
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.UserView
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	views, err := h.userQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

type transitionFunc func(ctx context.Context, bookingID uuid.UUID) (*commands.TransitionResult, error)

func (h *AdminHandler) transition(c *gin.Context, fn transitionFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	result, err := fn(c.Request.Context(), id)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	h.respondWithView(c, result.BookingID)
}

func (h *AdminHandler) respondWithView(c *gin.Context, id uuid.UUID) {
	view, err := h.bookingQueries.GetByIDSystem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response.FromBookingView(view))
}

