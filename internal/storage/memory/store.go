// Package memory provides an in-process user directory used by tests and
// local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store keeps users in a map keyed by normalized email.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserStore returns an empty Store.
func NewUserStore() *Store {
	return &Store{users: make(map[string]models.User)}
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[storage.NormalizeEmail(email)]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	user = storage.PrepareNew(user, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.users[user.Email] = user
	return user, nil
}

// Close is a no-op.
func (s *Store) Close() {}
