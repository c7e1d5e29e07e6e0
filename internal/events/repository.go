package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetByIDWithSeats(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context, query ListQuery) ([]Event, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// MutateSeats runs fn against the event and its full seat set while
	// holding a row lock on the event, serializing all seat mutations
	// for one event. Seats returned by fn are persisted and the
	// availability counter is recomputed before commit.
	MutateSeats(ctx context.Context, eventID uuid.UUID, fn SeatMutation) (*Event, error)

	// ReleaseExpiredLocks reclaims every lapsed seat lock across all
	// events and refreshes the touched counters.
	ReleaseExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

// SeatMutation inspects and mutates the seat set in place, returning
// the seats it changed.
type SeatMutation func(event *Event, seats []Seat) ([]*Seat, error)

// ListQuery carries filter and pagination parameters for event listing
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	City     string
	Search   string
	// IncludeInactive is set only for admin listings.
	IncludeInactive bool
}

// eventRowLock is the SELECT ... FOR UPDATE clause MutateSeats takes on
// the event row before touching any seat.
func eventRowLock() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetByIDWithSeats(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_row ASC, number ASC")
		}).
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event with seats: %w", err)
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query ListQuery) ([]Event, int64, error) {
	var events []Event
	var total int64

	db := r.db.WithContext(ctx).Model(&Event{})
	if !query.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.City != "" {
		db = db.Where("LOWER(venue_city) = LOWER(?)", query.City)
	}
	if query.Search != "" {
		pattern := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("date_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	return events, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrEventNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&Seat{}).Error; err != nil {
			return fmt.Errorf("failed to delete seats: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}

func (r *repository) MutateSeats(ctx context.Context, eventID uuid.UUID, fn SeatMutation) (*Event, error) {
	var out *Event

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		// The row lock on the event is the serialization point for all
		// seat mutations of that event.
		err := tx.Clauses(eventRowLock()).
			First(&event, "id = ?", eventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		var seats []Seat
		err = tx.Where("event_id = ?", eventID).
			Order("seat_row ASC, number ASC").
			Find(&seats).Error
		if err != nil {
			return fmt.Errorf("failed to load seats: %w", err)
		}

		changed, err := fn(&event, seats)
		if err != nil {
			return err
		}

		for _, seat := range changed {
			err := tx.Model(&Seat{}).Where("id = ?", seat.ID).Updates(map[string]interface{}{
				"status":       seat.Status,
				"locked_until": seat.LockedUntil,
				"booked_by":    seat.BookedBy,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update seat %s: %w", seat.Label(), err)
			}
		}

		available := 0
		for i := range seats {
			if seats[i].Status == SeatAvailable {
				available++
			}
		}
		if available != event.AvailableSeats {
			event.AvailableSeats = available
			err := tx.Model(&Event{}).Where("id = ?", eventID).
				Update("available_seats", available).Error
			if err != nil {
				return fmt.Errorf("failed to update available seats: %w", err)
			}
		}

		out = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ReleaseExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	var released int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eventIDs []uuid.UUID
		err := tx.Model(&Seat{}).
			Distinct("event_id").
			Where("status = ? AND locked_until < ?", SeatLocked, now).
			Pluck("event_id", &eventIDs).Error
		if err != nil {
			return fmt.Errorf("failed to find expired locks: %w", err)
		}
		if len(eventIDs) == 0 {
			return nil
		}

		result := tx.Model(&Seat{}).
			Where("status = ? AND locked_until < ?", SeatLocked, now).
			Updates(map[string]interface{}{
				"status":       SeatAvailable,
				"locked_until": nil,
				"booked_by":    nil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to release expired locks: %w", result.Error)
		}
		released = result.RowsAffected

		err = tx.Exec(`UPDATE events SET available_seats = (
				SELECT COUNT(*) FROM seats
				WHERE seats.event_id = events.id AND seats.status = ?
			) WHERE id IN ?`, SeatAvailable, eventIDs).Error
		if err != nil {
			return fmt.Errorf("failed to refresh seat counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
