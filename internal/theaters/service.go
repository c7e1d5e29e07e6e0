package theaters

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"showtix/internal/shared/constants"
	"showtix/internal/users"
	"showtix/pkg/cache"
	"showtix/pkg/logger"
)

var (
	ErrNotOwner         = errors.New("theater does not belong to this user")
	ErrTheaterNotActive = errors.New("theater is not approved")
)

type Service interface {
	Register(ctx context.Context, ownerID uuid.UUID, req *RegisterTheaterRequest) (*Theater, error)
	GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) ([]Theater, error)
	ListApproved(ctx context.Context, city string) ([]Theater, error)
	ListPending(ctx context.Context) ([]Theater, error)
	Approve(ctx context.Context, id uuid.UUID) (*Theater, error)
	Reject(ctx context.Context, id uuid.UUID) error
	AddScreen(ctx context.Context, ownerID, theaterID uuid.UUID, req *AddScreenRequest) (*Screen, error)

	// RequireApprovedScreen validates that the owner controls the
	// approved theater and that the named screen exists on it. Used by
	// event creation.
	RequireApprovedScreen(ctx context.Context, ownerID, theaterID uuid.UUID, screenName string) (*Screen, error)
}

type service struct {
	repo  Repository
	users users.Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, userRepo users.Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		users: userRepo,
		cache: cacheService,
		log:   log,
	}
}

func (s *service) Register(ctx context.Context, ownerID uuid.UUID, req *RegisterTheaterRequest) (*Theater, error) {
	theater := &Theater{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		OwnerID: ownerID,
		Status:  StatusPending,
	}
	for _, sc := range req.Screens {
		theater.Screens = append(theater.Screens, Screen{
			Name:     sc.Name,
			Capacity: sc.Capacity,
		})
	}

	if err := s.repo.Create(ctx, theater); err != nil {
		return nil, err
	}
	s.log.Info("theater registered",
		"theater_id", theater.ID.String(),
		"owner_id", ownerID.String(),
		"city", theater.City,
	)
	return theater, nil
}

func (s *service) GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) ([]Theater, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

func (s *service) ListApproved(ctx context.Context, city string) ([]Theater, error) {
	key := constants.BuildTheaterListKey(city)
	var out []Theater
	err := s.cache.GetOrSet(ctx, key, constants.TTL_THEATER_LIST, func() (interface{}, error) {
		return s.repo.GetApproved(ctx, city)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListPending(ctx context.Context) ([]Theater, error) {
	return s.repo.GetPending(ctx)
}

// Approve marks the theater APPROVED and promotes its owner to the
// theater admin role.
func (s *service) Approve(ctx context.Context, id uuid.UUID) (*Theater, error) {
	theater, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusApproved); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, theater.OwnerID)
	if err == nil && owner.Role == users.RoleUser {
		if err := s.users.Update(ctx, owner.ID, map[string]interface{}{"role": users.RoleTheaterAdmin}); err != nil {
			s.log.WithError(err).Error("failed to promote theater owner",
				"owner_id", owner.ID.String())
		}
	}

	s.invalidateTheaterCaches(ctx)
	theater.Status = StatusApproved
	s.log.Info("theater approved", "theater_id", id.String())
	return theater, nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.UpdateStatus(ctx, id, StatusRejected); err != nil {
		return err
	}
	s.invalidateTheaterCaches(ctx)
	s.log.Info("theater rejected", "theater_id", id.String())
	return nil
}

func (s *service) AddScreen(ctx context.Context, ownerID, theaterID uuid.UUID, req *AddScreenRequest) (*Screen, error) {
	theater, err := s.repo.GetByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	if theater.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	screen := &Screen{
		TheaterID: theaterID,
		Name:      req.Name,
		Capacity:  req.Capacity,
	}
	if err := s.repo.AddScreen(ctx, screen); err != nil {
		return nil, err
	}
	s.invalidateTheaterCaches(ctx)
	return screen, nil
}

func (s *service) RequireApprovedScreen(ctx context.Context, ownerID, theaterID uuid.UUID, screenName string) (*Screen, error) {
	theater, err := s.repo.GetByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	if theater.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if !theater.IsApproved() {
		return nil, ErrTheaterNotActive
	}
	return s.repo.GetScreen(ctx, theaterID, screenName)
}

func (s *service) invalidateTheaterCaches(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_PREFIX+":theaters:*"); err != nil {
		s.log.WithError(err).Warn("failed to invalidate theater cache")
	}
}
