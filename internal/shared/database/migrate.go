package database

import (
	"showtix/internal/bookings"
	"showtix/internal/events"
	"showtix/internal/theaters"
	"showtix/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults require the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&theaters.Theater{},
		&theaters.Screen{},
		&events.Event{},
		&events.Seat{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
	)
}
