package bookings

import (
	"time"

	"github.com/google/uuid"

	"showtix/internal/events"
)

type Status string

// Bookings are written only at confirmation time, so CONFIRMED is the
// initial status. Abandoned selections expire through the seat locks
// and payment order TTL instead of a pending booking row.
const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Booking is the permanent record of a confirmed purchase. Seat rows
// here are detached snapshots taken at confirmation time; later changes
// to the live seats never reach a booking.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingCode string    `gorm:"uniqueIndex;not null;size:30" json:"booking_code"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`

	Seats       []BookingSeat `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"seats"`
	TotalAmount float64       `gorm:"not null" json:"total_amount"`
	Status      Status        `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	PaymentID     *string       `gorm:"size:64;index" json:"payment_id,omitempty"`
	PaymentMethod string        `gorm:"size:20" json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"payment_status"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingSeat is a snapshot of one purchased seat
type BookingSeat struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	BookingID uuid.UUID           `gorm:"type:uuid;not null;index" json:"-"`
	Row       string              `gorm:"column:seat_row;not null;size:5" json:"row"`
	Number    int                 `gorm:"not null" json:"number"`
	Category  events.SeatCategory `gorm:"type:varchar(20);not null" json:"category"`
	Price     float64             `gorm:"not null" json:"price"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// SeatRefs rebuilds the seat addresses from the snapshots, used when
// cancellation releases the seats.
func (b *Booking) SeatRefs() []events.SeatRef {
	refs := make([]events.SeatRef, len(b.Seats))
	for i, seat := range b.Seats {
		refs[i] = events.SeatRef{Row: seat.Row, Number: seat.Number}
	}
	return refs
}
