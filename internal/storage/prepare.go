package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/all-in-auth/internal/models"
)

// PrepareNew fills the fields every backend sets on insert: a fresh ID when
// none is given, the normalized email, the default role and timestamps.
func PrepareNew(user models.User, now time.Time) models.User {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now = now.UTC().Truncate(time.Microsecond)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return user
}
