package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatLocked    SeatStatus = "locked"
	SeatBooked    SeatStatus = "booked"
)

type SeatCategory string

const (
	CategorySilver   SeatCategory = "Silver"
	CategoryGold     SeatCategory = "Gold"
	CategoryPlatinum SeatCategory = "Platinum"
)

// Venue is embedded into Event
type Venue struct {
	Name    string `gorm:"column:venue_name;not null;size:255" json:"name"`
	Address string `gorm:"column:venue_address;not null;size:500" json:"address"`
	City    string `gorm:"column:venue_city;not null;size:100" json:"city"`
}

// Event owns its seat collection exclusively; seats are created in bulk
// at event creation and removed only with the event.
type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string     `gorm:"not null;size:100" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Category    string     `gorm:"type:varchar(20);not null" json:"category"`
	DateTime    time.Time  `gorm:"not null;index" json:"date_time"`
	Venue       Venue      `gorm:"embedded" json:"venue"`
	TheaterID   *uuid.UUID `gorm:"type:uuid;index" json:"theater_id,omitempty"`
	Screen      string     `gorm:"size:50" json:"screen,omitempty"`
	TotalSeats  int        `gorm:"not null" json:"total_seats"`

	// AvailableSeats caches count(seats where status == available) and
	// is recomputed after every seat mutation.
	AvailableSeats int `gorm:"not null" json:"available_seats"`

	ImageURL  string    `gorm:"size:500" json:"image_url,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Seats []Seat `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;" json:"seats,omitempty"`
}

// Seat is addressed by (row, number), unique within its event. State
// transitions go through the locking core only.
type Seat struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	EventID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_seats_event_row_number" json:"-"`
	Row      string       `gorm:"column:seat_row;not null;size:5;uniqueIndex:idx_seats_event_row_number" json:"row"`
	Number   int          `gorm:"not null;uniqueIndex:idx_seats_event_row_number" json:"number"`
	Category SeatCategory `gorm:"type:varchar(20);not null" json:"category"`
	Price    float64      `gorm:"not null" json:"price"`
	Status   SeatStatus   `gorm:"type:varchar(20);default:'available';index" json:"status"`

	// LockedUntil is set only while Status == locked.
	LockedUntil *time.Time `json:"locked_until,omitempty"`

	// BookedBy identifies the lock holder while locked and the buyer
	// once booked.
	BookedBy *uuid.UUID `gorm:"type:uuid" json:"booked_by,omitempty"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// Label returns the human-readable seat address, e.g. "A12"
func (s *Seat) Label() string {
	return s.Row + itoa(s.Number)
}

// lockExpired reports whether a lock on the seat has lapsed at now.
// Only meaningful while Status == locked.
func (s *Seat) lockExpired(now time.Time) bool {
	return s.LockedUntil == nil || !s.LockedUntil.After(now)
}

// SeatRef addresses a seat within an event by its (row, number) pair
type SeatRef struct {
	Row    string `json:"row" binding:"required"`
	Number int    `json:"number" binding:"required,min=1"`
}

// Label returns the human-readable seat address, e.g. "A12"
func (r SeatRef) Label() string {
	return r.Row + itoa(r.Number)
}

// SeatSnapshot is a detached copy of a seat's sellable attributes,
// safe to store in a booking after the live seat moves on.
type SeatSnapshot struct {
	Row      string       `json:"row"`
	Number   int          `json:"number"`
	Category SeatCategory `json:"category"`
	Price    float64      `json:"price"`
}

// SeatLockResult is the outcome of a successful multi-seat lock
type SeatLockResult struct {
	Seats       []SeatSnapshot `json:"locked_seats"`
	LockExpiry  time.Time      `json:"lock_expiry"`
	TotalAmount float64        `json:"total_amount"`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
