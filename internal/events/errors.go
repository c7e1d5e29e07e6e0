package events

import "errors"

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrEventNotActive = errors.New("event is not active")
	ErrEventStarted   = errors.New("event has already started")

	ErrSeatNotFound        = errors.New("seat not found")
	ErrSeatAlreadyBooked   = errors.New("seat is already booked")
	ErrSeatLocked          = errors.New("seat is temporarily locked")
	ErrSeatNotLockedByUser = errors.New("seat is not locked by this user")
	ErrNoSeatsRequested    = errors.New("no seats requested")
	ErrDuplicateSeatRef    = errors.New("duplicate seat in request")
)
