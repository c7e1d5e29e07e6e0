package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/shared/utils/response"
	"showtix/internal/users"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /auth/register
func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	payload, err := ctrl.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Registration failed", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Registered successfully", payload, nil)
}

// Login handles POST /auth/login
func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	payload, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		ctrl.respondAuthError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Logged in successfully", payload, nil)
}

// Refresh handles POST /auth/refresh
func (ctrl *Controller) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	tokens, err := ctrl.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		ctrl.respondAuthError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed", tokens, nil)
}

// Profile handles GET /auth/profile
func (ctrl *Controller) Profile(c *gin.Context) {
	userID := c.GetString("user_id")
	profile, err := ctrl.service.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch profile", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile fetched successfully", profile, nil)
}

func (ctrl *Controller) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
	case errors.Is(err, ErrAccountDisabled):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Something went wrong", nil, nil)
	}
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id: %w", err)
	}
	return id, nil
}
