package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

// MemoryUserStore is an in-memory repository.UserRepository used by unit
// tests. It mirrors the Postgres implementation's error contract:
// lookups miss with pgx.ErrNoRows, duplicate emails fail as
// ALREADY_EXISTS.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []*domain.User
}

// NewMemoryUserStore builds an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperrors.NewAlreadyExists("user already exists")
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// MemorySweetStore is an in-memory repository.SweetRepository. Its
// DecrementStock holds the store lock across test and write, matching
// the atomicity of the SQL conditional update.
type MemorySweetStore struct {
	mu     sync.Mutex
	sweets []*domain.Sweet
}

// NewMemorySweetStore builds an empty store.
func NewMemorySweetStore() *MemorySweetStore {
	return &MemorySweetStore{}
}

func (s *MemorySweetStore) Create(_ context.Context, sweet *domain.Sweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	sweet.ID = uuid.NewString()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now
	clone := *sweet
	s.sweets = append(s.sweets, &clone)
	return nil
}

func (s *MemorySweetStore) Update(_ context.Context, sweet *domain.Sweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sweets {
		if existing.ID == sweet.ID {
			sweet.UpdatedAt = time.Now()
			sweet.CreatedAt = existing.CreatedAt
			clone := *sweet
			s.sweets[i] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *MemorySweetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sweets {
		if existing.ID == id {
			s.sweets = append(s.sweets[:i], s.sweets[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *MemorySweetStore) GetByID(_ context.Context, id string) (*domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sweet := range s.sweets {
		if sweet.ID == id {
			clone := *sweet
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *MemorySweetStore) List(_ context.Context) ([]domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Insertion order tracks created_at; newest first.
	result := make([]domain.Sweet, 0, len(s.sweets))
	for i := len(s.sweets) - 1; i >= 0; i-- {
		result = append(result, *s.sweets[i])
	}
	return result, nil
}

func (s *MemorySweetStore) Search(_ context.Context, term string) ([]domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(term))
	result := []domain.Sweet{}
	for i := len(s.sweets) - 1; i >= 0; i-- {
		sweet := s.sweets[i]
		if strings.Contains(strings.ToLower(sweet.Name), needle) ||
			strings.Contains(strings.ToLower(sweet.Category), needle) {
			result = append(result, *sweet)
		}
	}
	return result, nil
}

func (s *MemorySweetStore) DecrementStock(_ context.Context, id string) (*domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sweet := range s.sweets {
		if sweet.ID == id && sweet.Quantity > 0 {
			sweet.Quantity--
			sweet.UpdatedAt = time.Now()
			clone := *sweet
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}
