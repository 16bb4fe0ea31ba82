// Package sqlite provides a SQLite-backed user directory for single-node and
// local deployments.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // sqlite sql.DB driver initialization
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

const memoryPath = ":memory:"

var _ storage.UserStore = (*Store)(nil)

// Store is a [storage.UserStore] backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// NewUserStore opens the database at dbPath, creating parent directories as
// needed, and migrates it. Use ":memory:" for a throwaway database.
func NewUserStore(ctx context.Context, logger *slog.Logger, dbPath string) (*Store, error) {
	if dbPath != memoryPath {
		if _, err := os.Stat(dbPath); err != nil {
			const userOnlyDirPerms = 0o700
			if err = os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
				return nil, fmt.Errorf("failed to create db parent directory: %w", err)
			}
		}
	}

	dsn := dbPath
	if strings.ContainsRune(dsn, '?') {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_time_format=sqlite"

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	} else if err = handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	// one connection keeps a :memory: database alive and serializes writes
	handle.SetMaxOpenConns(1)

	if dbPath != memoryPath {
		const initSQL = `
		pragma journal_mode = WAL;
		pragma synchronous = normal;
		`
		if _, err = handle.ExecContext(ctx, initSQL); err != nil {
			_ = handle.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	if err = migrate(ctx, handle); err != nil {
		_ = handle.Close()
		return nil, err
	}
	logger.DebugContext(ctx, "sqlite user directory ready", slog.String("db", dbPath))
	return &Store{db: handle}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// FindByEmail satisfies the [storage.UserStore] interface.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, email, name, password_hash, image, role, created_at, updated_at
	FROM users
	WHERE email = ?;
	`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// CreateUser satisfies the [storage.UserStore] interface.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (id, email, name, password_hash, image, role, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	user = storage.PrepareNew(user, time.Now())
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Image, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Image, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
