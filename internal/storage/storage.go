package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/hongminglow/all-in-auth/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore is the user directory: user records keyed by email.
type UserStore interface {
	// FindByEmail returns the user whose email equals email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// CreateUser inserts user, assigning an ID when empty. Duplicate emails
	// yield ErrAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	Close()
}

// NormalizeEmail trims whitespace and lowercases email. Directory emails are
// always stored in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
