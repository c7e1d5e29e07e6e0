package events

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"showtix/internal/shared/constants"
	"showtix/pkg/cache"
	"showtix/pkg/logger"
)

type Service interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, req *CreateEventRequest) (*Event, error)
	GetEvents(ctx context.Context, query ListQuery) (*EventListResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	GetSeatMap(ctx context.Context, id uuid.UUID) (*SeatMapResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *UpdateEventRequest) (*Event, error)
	DeactivateEvent(ctx context.Context, id uuid.UUID) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	// Seat store operations, serialized per event.
	LockSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef, ttl time.Duration) (*SeatLockResult, error)
	ConfirmSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef) ([]SeatSnapshot, error)
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, refs []SeatRef) error

	// QuoteLockedSeats returns snapshots of seats the user currently
	// holds, without changing any state.
	QuoteLockedSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef) ([]SeatSnapshot, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	mutex *EventMutex
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, mutex *EventMutex, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		mutex: mutex,
		log:   log,
	}
}

func (s *service) CreateEvent(ctx context.Context, creatorID uuid.UUID, req *CreateEventRequest) (*Event, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, fmt.Errorf("event date must be in the future")
	}

	var seats []Seat
	if req.Capacity > 0 {
		seats = GenerateLayoutForCapacity(req.Capacity)
	} else {
		seats = GenerateLayout()
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DateTime:    req.DateTime,
		Venue: Venue{
			Name:    req.Venue.Name,
			Address: req.Venue.Address,
			City:    req.Venue.City,
		},
		TheaterID:      req.TheaterID,
		Screen:         req.Screen,
		ImageURL:       req.ImageURL,
		TotalSeats:     len(seats),
		AvailableSeats: len(seats),
		IsActive:       true,
		CreatedBy:      creatorID,
		Seats:          seats,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateListCaches(ctx)
	s.log.Info("event created",
		"event_id", event.ID.String(),
		"title", event.Title,
		"total_seats", event.TotalSeats,
	)
	return event, nil
}

func (s *service) GetEvents(ctx context.Context, query ListQuery) (*EventListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 20
	}

	key := constants.BuildEventListKey(query.Page, query.Limit, query.Category, query.City, query.Search)
	var resp EventListResponse
	err := s.cache.GetOrSet(ctx, key, constants.TTL_EVENT_LIST, func() (interface{}, error) {
		events, total, err := s.repo.GetAll(ctx, query)
		if err != nil {
			return nil, err
		}
		return &EventListResponse{
			Events: events,
			Pagination: PaginationMeta{
				Page:       query.Page,
				Limit:      query.Limit,
				Total:      total,
				TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
			},
		}, nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	key := constants.BuildEventDetailKey(id.String())
	var event Event
	err := s.cache.GetOrSet(ctx, key, constants.TTL_EVENT_DETAIL, func() (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *service) GetSeatMap(ctx context.Context, id uuid.UUID) (*SeatMapResponse, error) {
	key := constants.BuildSeatMapKey(id.String())
	var resp SeatMapResponse
	err := s.cache.GetOrSet(ctx, key, constants.TTL_SEAT_MAP, func() (interface{}, error) {
		event, err := s.repo.GetByIDWithSeats(ctx, id)
		if err != nil {
			return nil, err
		}
		return BuildSeatMap(event, time.Now()), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req *UpdateEventRequest) (*Event, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, fmt.Errorf("event date must be in the future")
		}
		updates["date_time"] = *req.DateTime
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	event, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateEventCaches(ctx, id)
	return event, nil
}

func (s *service) DeactivateEvent(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.Update(ctx, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return err
	}
	s.invalidateEventCaches(ctx, id)
	return nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateEventCaches(ctx, id)
	return nil
}

func (s *service) LockSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef, ttl time.Duration) (*SeatLockResult, error) {
	token, err := s.mutex.Acquire(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer s.mutex.Release(ctx, eventID, token)

	now := time.Now()
	var result SeatLockResult

	_, err = s.repo.MutateSeats(ctx, eventID, func(event *Event, seats []Seat) ([]*Seat, error) {
		if err := checkBookable(event, now); err != nil {
			return nil, err
		}
		changed := reclaimExpired(seats, now)
		picked, err := lockSeatSet(seats, refs, userID, now, ttl)
		if err != nil {
			return nil, err
		}
		result.Seats = snapshotSeats(picked)
		result.LockExpiry = now.Add(ttl)
		for _, seat := range picked {
			result.TotalAmount += seat.Price
		}
		return append(changed, picked...), nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSeatCaches(ctx, eventID)
	s.log.LogSeatsLocked(ctx, eventID.String(), userID.String(), len(refs), result.LockExpiry)
	return &result, nil
}

func (s *service) ConfirmSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef) ([]SeatSnapshot, error) {
	token, err := s.mutex.Acquire(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer s.mutex.Release(ctx, eventID, token)

	var snapshots []SeatSnapshot
	_, err = s.repo.MutateSeats(ctx, eventID, func(event *Event, seats []Seat) ([]*Seat, error) {
		if !event.IsActive {
			return nil, ErrEventNotActive
		}
		picked, err := confirmSeatSet(seats, refs, userID)
		if err != nil {
			return nil, err
		}
		snapshots = snapshotSeats(picked)
		return picked, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSeatCaches(ctx, eventID)
	return snapshots, nil
}

func (s *service) ReleaseSeats(ctx context.Context, eventID uuid.UUID, refs []SeatRef) error {
	token, err := s.mutex.Acquire(ctx, eventID)
	if err != nil {
		return err
	}
	defer s.mutex.Release(ctx, eventID, token)

	now := time.Now()
	_, err = s.repo.MutateSeats(ctx, eventID, func(event *Event, seats []Seat) ([]*Seat, error) {
		changed := reclaimExpired(seats, now)
		released := releaseSeatSet(seats, refs)
		return append(changed, released...), nil
	})
	if err != nil {
		return err
	}

	s.invalidateSeatCaches(ctx, eventID)
	return nil
}

func (s *service) QuoteLockedSeats(ctx context.Context, eventID, userID uuid.UUID, refs []SeatRef) ([]SeatSnapshot, error) {
	if err := validateRefs(refs); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByIDWithSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, ErrEventNotActive
	}

	picked := make([]*Seat, 0, len(refs))
	for _, ref := range refs {
		seat := findSeat(event.Seats, ref)
		if seat == nil {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatNotFound)
		}
		if seat.Status != SeatLocked || seat.BookedBy == nil || *seat.BookedBy != userID {
			return nil, fmt.Errorf("seat %s: %w", ref.Label(), ErrSeatNotLockedByUser)
		}
		picked = append(picked, seat)
	}
	return snapshotSeats(picked), nil
}

// checkBookable gates seat locking: the event must be active and must
// not have started yet.
func checkBookable(event *Event, now time.Time) error {
	if !event.IsActive {
		return ErrEventNotActive
	}
	if event.DateTime.Before(now) {
		return ErrEventStarted
	}
	return nil
}

func (s *service) invalidateListCaches(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_PREFIX+":events:list:*"); err != nil {
		s.log.WithError(err).Warn("failed to invalidate event list cache")
	}
}

func (s *service) invalidateEventCaches(ctx context.Context, id uuid.UUID) {
	s.invalidateListCaches(ctx)
	if err := s.cache.Delete(ctx, constants.BuildEventDetailKey(id.String())); err != nil {
		s.log.WithError(err).Warn("failed to invalidate event detail cache")
	}
	s.invalidateSeatCaches(ctx, id)
}

func (s *service) invalidateSeatCaches(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildSeatMapKey(id.String())); err != nil {
		s.log.WithError(err).Warn("failed to invalidate seat map cache")
	}
}
