package theaters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTheaterNotFound = errors.New("theater not found")
	ErrScreenNotFound  = errors.New("screen not found")
)

type Repository interface {
	Create(ctx context.Context, theater *Theater) error
	GetByID(ctx context.Context, id uuid.UUID) (*Theater, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Theater, error)
	GetApproved(ctx context.Context, city string) ([]Theater, error)
	GetPending(ctx context.Context) ([]Theater, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status TheaterStatus) error
	AddScreen(ctx context.Context, screen *Screen) error
	GetScreen(ctx context.Context, theaterID uuid.UUID, name string) (*Screen, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, theater *Theater) error {
	if err := r.db.WithContext(ctx).Create(theater).Error; err != nil {
		return fmt.Errorf("failed to create theater: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).Preload("Screens").First(&theater, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}
	return &theater, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Theater, error) {
	var out []Theater
	err := r.db.WithContext(ctx).Preload("Screens").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list theaters by owner: %w", err)
	}
	return out, nil
}

func (r *repository) GetApproved(ctx context.Context, city string) ([]Theater, error) {
	var out []Theater
	db := r.db.WithContext(ctx).Preload("Screens").Where("status = ?", StatusApproved)
	if city != "" {
		db = db.Where("LOWER(city) = LOWER(?)", city)
	}
	if err := db.Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved theaters: %w", err)
	}
	return out, nil
}

func (r *repository) GetPending(ctx context.Context) ([]Theater, error) {
	var out []Theater
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending theaters: %w", err)
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status TheaterStatus) error {
	result := r.db.WithContext(ctx).Model(&Theater{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update theater status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTheaterNotFound
	}
	return nil
}

func (r *repository) AddScreen(ctx context.Context, screen *Screen) error {
	if err := r.db.WithContext(ctx).Create(screen).Error; err != nil {
		return fmt.Errorf("failed to add screen: %w", err)
	}
	return nil
}

func (r *repository) GetScreen(ctx context.Context, theaterID uuid.UUID, name string) (*Screen, error) {
	var screen Screen
	err := r.db.WithContext(ctx).
		First(&screen, "theater_id = ? AND name = ?", theaterID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		return nil, fmt.Errorf("failed to get screen: %w", err)
	}
	return &screen, nil
}
