package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Booking, error)
	GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error)
	GetAll(ctx context.Context, page, limit int) ([]Booking, int64, error)

	// TransitionStatus flips the booking from one status to another and
	// applies updates in the same statement. Fails with
	// ErrBookingConflict when the booking is no longer in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Seats").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Seats").First(&booking, "booking_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by code: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByPaymentID(ctx context.Context, paymentID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Seats").First(&booking, "payment_id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by payment id: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID), page, limit)
}

func (r *repository) GetAll(ctx context.Context, page, limit int) ([]Booking, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Booking{}), page, limit)
}

func (r *repository) list(ctx context.Context, db *gorm.DB, page, limit int) ([]Booking, int64, error) {
	var out []Booking
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	err := db.Preload("Seats").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return out, total, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	if updates == nil {
		updates = make(map[string]interface{})
	}
	updates["status"] = to

	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to transition booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingConflict
	}
	return nil
}
