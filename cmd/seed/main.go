package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"showtix/internal/events"
	"showtix/internal/shared/config"
	"showtix/internal/shared/database"
	"showtix/internal/theaters"
	"showtix/internal/users"
	"showtix/pkg/logger"
)

// Seeds a development database with an admin, a few users, an approved
// theater and a handful of upcoming events with full seat layouts.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize databases")
		os.Exit(1)
	}
	defer db.Close()

	gormDB := db.GetPostgreSQL()

	seedUsers := []struct {
		name   string
		email  string
		mobile string
		role   users.Role
	}{
		{"Platform Admin", "admin@showtix.local", "9000000001", users.RoleAdmin},
		{"Priya Sharma", "priya@example.com", "9000000002", users.RoleUser},
		{"Rahul Verma", "rahul@example.com", "9000000003", users.RoleUser},
		{"PVR Manager", "manager@pvr.example.com", "9000000004", users.RoleTheaterAdmin},
	}

	password, err := bcrypt.GenerateFromPassword([]byte("Password@123"), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("failed to hash seed password")
		os.Exit(1)
	}

	byEmail := make(map[string]*users.User)
	for _, su := range seedUsers {
		user := &users.User{
			Name:     su.name,
			Email:    su.email,
			Mobile:   su.mobile,
			Password: string(password),
			Role:     su.role,
			IsActive: true,
		}
		if err := gormDB.Where(users.User{Email: su.email}).FirstOrCreate(user).Error; err != nil {
			log.WithError(err).Error("failed to seed user", "email", su.email)
			os.Exit(1)
		}
		byEmail[su.email] = user
	}
	log.Info("seeded users", "count", len(seedUsers))

	owner := byEmail["manager@pvr.example.com"]
	theater := &theaters.Theater{
		Name:    "PVR Phoenix",
		Address: "Phoenix Mall, Lower Parel",
		City:    "Mumbai",
		OwnerID: owner.ID,
		Status:  theaters.StatusApproved,
		Screens: []theaters.Screen{
			{Name: "Audi 1", Capacity: 80},
			{Name: "Audi 2", Capacity: 50},
		},
	}
	if err := gormDB.Where(theaters.Theater{Name: theater.Name, OwnerID: owner.ID}).
		FirstOrCreate(theater).Error; err != nil {
		log.WithError(err).Error("failed to seed theater")
		os.Exit(1)
	}
	log.Info("seeded theater", "theater_id", theater.ID.String())

	admin := byEmail["admin@showtix.local"]
	now := time.Now()
	seedEvents := []struct {
		title       string
		description string
		category    string
		startsIn    time.Duration
		venue       events.Venue
		capacity    int
	}{
		{
			title:       "Interstellar: IMAX Re-release",
			description: "Christopher Nolan's space epic back on the big screen.",
			category:    "Movie",
			startsIn:    72 * time.Hour,
			venue:       events.Venue{Name: "PVR Phoenix", Address: "Phoenix Mall, Lower Parel", City: "Mumbai"},
		},
		{
			title:       "Arijit Singh Live",
			description: "An evening of soulful melodies with a full live band.",
			category:    "Concert",
			startsIn:    7 * 24 * time.Hour,
			venue:       events.Venue{Name: "Jio Garden", Address: "BKC", City: "Mumbai"},
			capacity:    100,
		},
		{
			title:       "Mumbai Comedy Nights",
			description: "Five headliners, one stage, zero mercy.",
			category:    "Comedy",
			startsIn:    5 * 24 * time.Hour,
			venue:       events.Venue{Name: "The Habitat", Address: "Khar West", City: "Mumbai"},
			capacity:    50,
		},
	}

	for _, se := range seedEvents {
		var seats []events.Seat
		if se.capacity > 0 {
			seats = events.GenerateLayoutForCapacity(se.capacity)
		} else {
			seats = events.GenerateLayout()
		}
		event := &events.Event{
			Title:          se.title,
			Description:    se.description,
			Category:       se.category,
			DateTime:       now.Add(se.startsIn),
			Venue:          se.venue,
			TotalSeats:     len(seats),
			AvailableSeats: len(seats),
			IsActive:       true,
			CreatedBy:      admin.ID,
			Seats:          seats,
		}
		if err := gormDB.Where(events.Event{Title: se.title}).FirstOrCreate(event).Error; err != nil {
			log.WithError(err).Error("failed to seed event", "title", se.title)
			os.Exit(1)
		}
	}
	log.Info("seeded events", "count", len(seedEvents))
	log.Info("seed complete")
}
