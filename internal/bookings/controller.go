package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/events"
	"showtix/internal/payments"
	"showtix/internal/shared/middleware"
	"showtix/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// LockSeats handles POST /bookings/lock-seats
func (ctrl *Controller) LockSeats(c *gin.Context) {
	var req LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	result, err := ctrl.service.LockSeats(c.Request.Context(), userID, &req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats locked successfully", result, nil)
}

// ConfirmBooking handles POST /bookings
func (ctrl *Controller) ConfirmBooking(c *gin.Context) {
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.ConfirmBooking(c.Request.Context(), userID, &req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed successfully", booking, nil)
}

// GetMine handles GET /bookings
func (ctrl *Controller) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	list, err := ctrl.service.GetUserBookings(c.Request.Context(), userID,
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched successfully", list, nil)
}

// Get handles GET /bookings/:id
func (ctrl *Controller) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking id", nil, nil)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", booking, nil)
}

// GetByCode handles GET /bookings/code/:code
func (ctrl *Controller) GetByCode(c *gin.Context) {
	code := c.Param("code")

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBookingByCode(c.Request.Context(), code, userID, middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", booking, nil)
}

// Cancel handles PUT /bookings/:id/cancel
func (ctrl *Controller) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking id", nil, nil)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// Ticket handles GET /bookings/:id/ticket
func (ctrl *Controller) Ticket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking id", nil, nil)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	if booking.Status != StatusConfirmed {
		response.RespondJSON(c, "error", http.StatusConflict, "Ticket is only available for confirmed bookings", nil, nil)
		return
	}

	png, err := TicketQR(booking, queryInt(c, "size", 256))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to render ticket", nil, nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, events.ErrEventNotFound), errors.Is(err, events.ErrSeatNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrCancellationWindowClosed):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, events.ErrSeatLocked), errors.Is(err, events.ErrSeatAlreadyBooked):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, events.ErrSeatNotLockedByUser),
		errors.Is(err, events.ErrEventNotActive),
		errors.Is(err, events.ErrEventStarted),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrAlreadyRefunded),
		errors.Is(err, ErrNotConfirmed),
		errors.Is(err, ErrBookingConflict):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, events.ErrNoSeatsRequested), errors.Is(err, events.ErrDuplicateSeatRef):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, payments.ErrOrderNotFound),
		errors.Is(err, payments.ErrInvalidSignature),
		errors.Is(err, payments.ErrAmountMismatch),
		errors.Is(err, payments.ErrPaymentConsumed),
		errors.Is(err, payments.ErrUnsupportedMethod):
		response.RespondJSON(c, "error", http.StatusPaymentRequired, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Something went wrong", nil, nil)
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
