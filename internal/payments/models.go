package payments

import (
	"errors"
	"time"
)

type Method string

const (
	MethodCard       Method = "card"
	MethodNetbanking Method = "netbanking"
	MethodQR         Method = "qr"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodCard, MethodNetbanking, MethodQR:
		return true
	}
	return false
}

var (
	ErrOrderNotFound      = errors.New("payment order not found or expired")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrAmountMismatch     = errors.New("payment amount does not match order")
	ErrPaymentConsumed    = errors.New("payment has already been used")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrInvalidWebhookBody = errors.New("invalid webhook payload")
)

// Order is a pending payment intent. Orders live in Redis for the
// seat lock window; a payment against a vanished order is rejected.
type Order struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    Method    `json:"method"`
	CreatedAt time.Time `json:"created_at"`

	// UPIString is populated for qr orders only.
	UPIString string `json:"upi_string,omitempty"`
}

// Attempt is what a client submits to confirm a booking
type Attempt struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature,omitempty"`
	Method    Method `json:"method"`
}

// WebhookEvent mirrors the gateway's webhook body
type WebhookEvent struct {
	Event     string  `json:"event"`
	OrderID   string  `json:"order_id"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
}

const (
	EventCaptured = "payment.captured"
	EventFailed   = "payment.failed"
	EventRefunded = "payment.refunded"
)
