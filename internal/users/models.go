package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser         Role = "USER"
	RoleTheaterAdmin Role = "THEATER_ADMIN"
	RoleAdmin        Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleTheaterAdmin, RoleAdmin:
		return true
	}
	return false
}

// User defines the account record shared by customers, theater
// operators and administrators.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Email     string    `gorm:"unique;not null;size:255" json:"email"`
	Mobile    string    `gorm:"size:20" json:"mobile"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);default:'USER'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile,omitempty"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to its public view
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
