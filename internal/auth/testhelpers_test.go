package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser stores a user with a bcrypt hash of password.
func seedUser(t *testing.T, store *memory.Store, email, name, password string) models.User {
	t.Helper()
	user := models.User{Email: email, Name: name}
	if password != "" {
		hash, err := HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = string(hash)
	}
	created, err := store.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return created
}
