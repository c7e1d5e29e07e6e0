package bookings

import "errors"

var (
	ErrBookingNotFound          = errors.New("booking not found")
	ErrNotOwner                 = errors.New("booking does not belong to this user")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrAlreadyRefunded          = errors.New("booking is already refunded")
	ErrNotConfirmed             = errors.New("booking is not confirmed")
	ErrCancellationWindowClosed = errors.New("cancellation window is closed")
	ErrBookingConflict          = errors.New("booking was modified concurrently")
)
