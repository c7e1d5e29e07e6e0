package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/bookings"
	"showtix/internal/events"
	"showtix/internal/shared/utils/response"
	"showtix/internal/theaters"
	"showtix/internal/users"
)

// Controller hosts the platform moderation surface. Every route behind
// it requires the ADMIN role.
type Controller struct {
	users    users.Repository
	theaters theaters.Service
	bookings bookings.Service
	events   events.Service
}

func NewController(userRepo users.Repository, theaterService theaters.Service, bookingService bookings.Service, eventService events.Service) *Controller {
	return &Controller{
		users:    userRepo,
		theaters: theaterService,
		bookings: bookingService,
		events:   eventService,
	}
}

// ListUsers handles GET /admin/users
func (ctrl *Controller) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := ctrl.users.GetAll(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch users", nil, nil)
		return
	}

	out := make([]*users.UserResponse, len(list))
	for i := range list {
		out[i] = list[i].ToResponse()
	}
	response.RespondJSON(c, "success", http.StatusOK, "Users fetched successfully", gin.H{
		"users": out,
		"total": total,
		"page":  page,
		"limit": limit,
	}, nil)
}

// DeactivateUser handles PUT /admin/users/:id/deactivate
func (ctrl *Controller) DeactivateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user id", nil, nil)
		return
	}

	err = ctrl.users.Update(c.Request.Context(), id, map[string]interface{}{"is_active": false})
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to deactivate user", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "User deactivated", nil, nil)
}

// PendingTheaters handles GET /admin/theaters/pending
func (ctrl *Controller) PendingTheaters(c *gin.Context) {
	list, err := ctrl.theaters.ListPending(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch pending theaters", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Pending theaters fetched successfully", list, nil)
}

// ApproveTheater handles PUT /admin/theaters/:id/approve
func (ctrl *Controller) ApproveTheater(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater id", nil, nil)
		return
	}

	theater, err := ctrl.theaters.Approve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, theaters.ErrTheaterNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Theater not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to approve theater", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theater approved", theater, nil)
}

// RejectTheater handles PUT /admin/theaters/:id/reject
func (ctrl *Controller) RejectTheater(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater id", nil, nil)
		return
	}

	if err := ctrl.theaters.Reject(c.Request.Context(), id); err != nil {
		if errors.Is(err, theaters.ErrTheaterNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Theater not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to reject theater", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theater rejected", nil, nil)
}

// ListBookings handles GET /admin/bookings
func (ctrl *Controller) ListBookings(c *gin.Context) {
	page, limit := pagination(c)
	list, err := ctrl.bookings.GetAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched successfully", list, nil)
}

// RefundBooking handles PUT /admin/bookings/:id/refund
func (ctrl *Controller) RefundBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking id", nil, nil)
		return
	}

	booking, err := ctrl.bookings.MarkRefunded(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, bookings.ErrAlreadyRefunded), errors.Is(err, bookings.ErrBookingConflict):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to refund booking", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking refunded", booking, nil)
}

// ListEvents handles GET /admin/events, including inactive ones
func (ctrl *Controller) ListEvents(c *gin.Context) {
	page, limit := pagination(c)
	list, err := ctrl.events.GetEvents(c.Request.Context(), events.ListQuery{
		Page:            page,
		Limit:           limit,
		Category:        c.Query("category"),
		City:            c.Query("city"),
		IncludeInactive: true,
	})
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch events", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events fetched successfully", list, nil)
}

// DeactivateEvent handles PUT /admin/events/:id/deactivate
func (ctrl *Controller) DeactivateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event id", nil, nil)
		return
	}

	if err := ctrl.events.DeactivateEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to deactivate event", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event deactivated", nil, nil)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
