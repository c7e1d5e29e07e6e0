package events

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/shared/utils/response"
)

// TheaterGate validates that the creator owns the approved theater and
// that the named screen exists on it, returning the screen capacity.
type TheaterGate func(ctx context.Context, ownerID, theaterID uuid.UUID, screen string) (int, error)

type Controller struct {
	service Service
	gate    TheaterGate
}

func NewController(service Service, gate TheaterGate) *Controller {
	return &Controller{service: service, gate: gate}
}

// CreateEvent handles POST /events
func (ctrl *Controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	creatorID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	if req.TheaterID != nil && ctrl.gate != nil {
		capacity, err := ctrl.gate(c.Request.Context(), creatorID, *req.TheaterID, req.Screen)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
			return
		}
		// The screen's capacity shapes the layout unless the request
		// asks for a smaller one.
		if req.Capacity == 0 || req.Capacity > capacity {
			req.Capacity = capacity
		}
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), creatorID, &req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

// GetEvents handles GET /events
func (ctrl *Controller) GetEvents(c *gin.Context) {
	query := ListQuery{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
		Category: c.Query("category"),
		City:     c.Query("city"),
		Search:   c.Query("search"),
	}

	resp, err := ctrl.service.GetEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch events", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events fetched successfully", resp, nil)
}

// GetEvent handles GET /events/:id
func (ctrl *Controller) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event id", nil, nil)
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event fetched successfully", event, nil)
}

// GetSeatMap handles GET /events/:id/seats
func (ctrl *Controller) GetSeatMap(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event id", nil, nil)
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat map fetched successfully", seatMap, nil)
}

// UpdateEvent handles PUT /events/:id
func (ctrl *Controller) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event id", nil, nil)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), id, &req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

// DeleteEvent handles DELETE /events/:id
func (ctrl *Controller) DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event id", nil, nil)
		return
	}

	if err := ctrl.service.DeleteEvent(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	case errors.Is(err, ErrEventNotActive), errors.Is(err, ErrEventStarted):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Something went wrong", nil, nil)
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
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
