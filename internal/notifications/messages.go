package notifications

import "time"

type NotificationType string

const (
	TypeBookingConfirmed NotificationType = "booking.confirmed"
	TypeBookingCancelled NotificationType = "booking.cancelled"
)

// Message is the payload published to the notification topic. Messages
// are keyed by user id so one user's notifications stay ordered.
type Message struct {
	Type        NotificationType `json:"type"`
	BookingCode string           `json:"booking_code"`
	UserID      string           `json:"user_id"`
	EventID     string           `json:"event_id"`
	TotalAmount float64          `json:"total_amount"`
	Seats       []string         `json:"seats"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
