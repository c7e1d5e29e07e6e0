package bookings

import (
	"github.com/google/uuid"

	"showtix/internal/events"
	"showtix/internal/payments"
)

type LockSeatsRequest struct {
	EventID uuid.UUID         `json:"event_id" binding:"required"`
	Seats   []events.SeatRef  `json:"seats" binding:"required,min=1,max=10,dive"`
}

type ConfirmBookingRequest struct {
	EventID uuid.UUID        `json:"event_id" binding:"required"`
	Seats   []events.SeatRef `json:"seats" binding:"required,min=1,max=10,dive"`

	Payment PaymentDetails `json:"payment" binding:"required"`
}

type PaymentDetails struct {
	OrderID   string          `json:"order_id" binding:"required"`
	PaymentID string          `json:"payment_id" binding:"required"`
	Signature string          `json:"signature"`
	Method    payments.Method `json:"method" binding:"required,oneof=card netbanking qr"`
}

func (p PaymentDetails) attempt() *payments.Attempt {
	return &payments.Attempt{
		OrderID:   p.OrderID,
		PaymentID: p.PaymentID,
		Signature: p.Signature,
		Method:    p.Method,
	}
}
