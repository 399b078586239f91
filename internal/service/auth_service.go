package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sweet-shop-service/internal/auth"
	"github.com/spec-kit/sweet-shop-service/internal/config"
	"github.com/spec-kit/sweet-shop-service/internal/domain"
	"github.com/spec-kit/sweet-shop-service/internal/events"
	"github.com/spec-kit/sweet-shop-service/internal/repository"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account and issues a fresh token. An empty role
// defaults to "user".
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be user or admin", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewAlreadyExists("user already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.UserRegisteredPayload{
			Email: user.Email,
			Role:  user.Role,
		},
	})
	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email and bad
// password fail identically so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
