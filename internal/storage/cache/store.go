// Package cache fronts a user directory with a Redis read-through cache so
// that session reads, which look the user up on every request, stay cheap.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

const keyPrefix = "user:email:"

var _ storage.UserStore = (*Store)(nil)

// Store caches FindByEmail results from the wrapped store. Cache failures are
// logged and fall through to the wrapped store.
type Store struct {
	next   storage.UserStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewUserStore connects to the Redis instance at redisURL and wraps next.
func NewUserStore(ctx context.Context, next storage.UserStore, redisURL string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Store{next: next, client: client, ttl: ttl, logger: logger}, nil
}

// entry is the cached form of a user. The password hash is cached too since
// the authenticator reads it through the same lookup.
type entry struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Image        string    `json:"image"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toEntry(u models.User) entry {
	return entry(u)
}

func (e entry) user() models.User {
	return models.User(e)
}

func cacheKey(email string) string {
	return keyPrefix + storage.NormalizeEmail(email)
}

// FindByEmail returns the cached user when present, otherwise loads it from
// the wrapped store and caches it. Misses are not cached.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	key := cacheKey(email)
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e entry
		if err := json.Unmarshal(raw, &e); err == nil {
			return e.user(), nil
		}
		s.logger.WarnContext(ctx, "discarding corrupt user cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "user cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	user, err := s.next.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	s.store(ctx, key, user)
	return user, nil
}

// CreateUser writes through to the wrapped store and drops any stale entry.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	created, err := s.next.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	if err := s.client.Del(ctx, cacheKey(created.Email)).Err(); err != nil {
		s.logger.WarnContext(ctx, "user cache invalidation failed", slog.Any("error", err))
	}
	return created, nil
}

// Close releases the Redis client and the wrapped store.
func (s *Store) Close() {
	_ = s.client.Close()
	s.next.Close()
}

func (s *Store) store(ctx context.Context, key string, user models.User) {
	raw, err := json.Marshal(toEntry(user))
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "user cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
