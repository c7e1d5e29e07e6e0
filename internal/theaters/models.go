package theaters

import (
	"time"

	"github.com/google/uuid"
)

type TheaterStatus string

const (
	StatusPending  TheaterStatus = "PENDING"
	StatusApproved TheaterStatus = "APPROVED"
	StatusRejected TheaterStatus = "REJECTED"
)

// Theater is a venue registered by a prospective theater admin. It
// stays PENDING until a platform admin approves it; only approved
// theaters can host events.
type Theater struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string        `gorm:"not null;size:255" json:"name"`
	Address   string        `gorm:"not null;size:500" json:"address"`
	City      string        `gorm:"not null;size:100;index" json:"city"`
	OwnerID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status    TheaterStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Screens []Screen `gorm:"foreignKey:TheaterID;constraint:OnDelete:CASCADE;" json:"screens,omitempty"`
}

type Screen struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TheaterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_screens_theater_name" json:"-"`
	Name      string    `gorm:"not null;size:50;uniqueIndex:idx_screens_theater_name" json:"name"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Theater
func (Theater) TableName() string {
	return "theaters"
}

// TableName sets the table name for Screen
func (Screen) TableName() string {
	return "screens"
}

// IsApproved reports whether the theater can host events
func (t *Theater) IsApproved() bool {
	return t.Status == StatusApproved
}
