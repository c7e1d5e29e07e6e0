package events

import (
	"time"

	"github.com/google/uuid"
)

type VenueRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Address string `json:"address" binding:"required,min=5,max=500"`
	City    string `json:"city" binding:"required,min=2,max=100"`
}

type CreateEventRequest struct {
	Title       string       `json:"title" binding:"required,min=3,max=100"`
	Description string       `json:"description" binding:"required,min=10"`
	Category    string       `json:"category" binding:"required,oneof=Movie Concert Sports Theater Comedy"`
	DateTime    time.Time    `json:"date_time" binding:"required"`
	Venue       VenueRequest `json:"venue" binding:"required"`
	ImageURL    string       `json:"image_url" binding:"omitempty,url"`

	// Capacity sizes a custom layout; zero selects the standard 8x10
	// grid.
	Capacity  int        `json:"capacity" binding:"omitempty,min=1,max=100"`
	TheaterID *uuid.UUID `json:"theater_id"`
	Screen    string     `json:"screen" binding:"omitempty,max=50"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string    `json:"description" binding:"omitempty,min=10"`
	Category    *string    `json:"category" binding:"omitempty,oneof=Movie Concert Sports Theater Comedy"`
	DateTime    *time.Time `json:"date_time"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool      `json:"is_active"`
}
