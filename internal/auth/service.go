package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"showtix/internal/shared/config"
	"showtix/internal/users"
	"showtix/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// AuthPayload is returned on successful register or login
type AuthPayload struct {
	User   *users.UserResponse `json:"user"`
	Tokens *TokenPair          `json:"tokens"`
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthPayload, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthPayload, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Profile(ctx context.Context, userID string) (*users.UserResponse, error)
}

type service struct {
	repo   users.Repository
	issuer *tokenIssuer
	log    *logger.Logger
}

func NewService(repo users.Repository, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		issuer: newTokenIssuer(cfg.JWT.Secret, cfg.JWT.JWTExpiresIn, cfg.JWT.RefreshExpiresIn),
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthPayload, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &users.User{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: string(hashed),
		Role:     users.RoleUser,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issuer.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID.String(), "email", user.Email)
	return &AuthPayload{User: user.ToResponse(), Tokens: tokens}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthPayload, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.LogAuthFailure(ctx, req.Email, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.log.LogAuthFailure(ctx, req.Email, "wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tokens, err := s.issuer.issuePair(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: user.ToResponse(), Tokens: tokens}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.parseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issuer.issuePair(user)
}

func (s *service) Profile(ctx context.Context, userID string) (*users.UserResponse, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}
