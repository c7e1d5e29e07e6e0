package theaters

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /theaters
func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	ownerID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	theater, err := ctrl.service.Register(c.Request.Context(), ownerID, &req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to register theater", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Theater registered, pending approval", theater, nil)
}

// List handles GET /theaters
func (ctrl *Controller) List(c *gin.Context) {
	theaters, err := ctrl.service.ListApproved(c.Request.Context(), c.Query("city"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch theaters", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theaters fetched successfully", theaters, nil)
}

// GetMine handles GET /theaters/mine
func (ctrl *Controller) GetMine(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	theaters, err := ctrl.service.GetMine(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch theaters", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theaters fetched successfully", theaters, nil)
}

// Get handles GET /theaters/:id
func (ctrl *Controller) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater id", nil, nil)
		return
	}

	theater, err := ctrl.service.GetTheater(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theater fetched successfully", theater, nil)
}

// AddScreen handles POST /theaters/:id/screens
func (ctrl *Controller) AddScreen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid theater id", nil, nil)
		return
	}

	var req AddScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	ownerID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	screen, err := ctrl.service.AddScreen(c.Request.Context(), ownerID, id, &req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Screen added successfully", screen, nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTheaterNotFound), errors.Is(err, ErrScreenNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrTheaterNotActive):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
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
