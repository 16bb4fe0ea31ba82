package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

// Enricher refreshes a session's user view from the user directory.
type Enricher struct {
	store storage.UserStore
}

// NewEnricher constructs an Enricher over store.
func NewEnricher(store storage.UserStore) *Enricher {
	return &Enricher{store: store}
}

// Enrich looks up the session's email and projects the stored user onto the
// session. When no user matches, the session is returned unchanged with a nil
// error. Other lookup failures return the unchanged session and the error.
func (e *Enricher) Enrich(ctx context.Context, session models.Session) (models.Session, error) {
	user, err := e.store.FindByEmail(ctx, session.User.Email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return session, nil
	case err != nil:
		return session, fmt.Errorf("enrich session: %w", err)
	}
	session.User = applyUser(session.User, user)
	return session, nil
}

// applyUser overwrites every directory-owned field of su with u's value. The
// directory ID always wins.
func applyUser(su models.SessionUser, u models.User) models.SessionUser {
	su.ID = u.ID
	su.Email = u.Email
	su.Name = u.Name
	su.Image = u.Image
	su.Role = u.Role
	su.CreatedAt = timePtr(u.CreatedAt)
	su.UpdatedAt = timePtr(u.UpdatedAt)
	return su
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
