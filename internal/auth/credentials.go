package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

const minPasswordLength = 4

// Credentials is the raw login input. An empty field counts as absent.
type Credentials struct {
	Email    string
	Password string
}

type loginInput struct {
	Email    string `validate:"email"`
	Password string `validate:"min=4"`
}

// ruleMessages maps "Field.tag" to the message reported for that violation.
var ruleMessages = map[string]string{
	"Email.email":  "invalid email format",
	"Password.min": fmt.Sprintf("password must be at least %d characters long", minPasswordLength),
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Authenticator verifies credentials against the user directory.
type Authenticator struct {
	store  storage.UserStore
	logger *slog.Logger
}

// NewAuthenticator constructs an Authenticator over store.
func NewAuthenticator(store storage.UserStore, logger *slog.Logger) *Authenticator {
	return &Authenticator{store: store, logger: logger}
}

// Authorize checks creds and returns the identity of the matching user.
//
// Missing credentials yield (nil, nil). Malformed input yields a
// *ValidationError. An unknown email and a wrong password both yield
// ErrInvalidPassword.
func (a *Authenticator) Authorize(ctx context.Context, creds Credentials) (*models.Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, nil
	}

	email := storage.NormalizeEmail(creds.Email)
	if err := ValidateCredentials(email, creds.Password); err != nil {
		return nil, err
	}

	user, err := a.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		_ = ComparePassword(creds.Password, decoyHash())
		a.logger.InfoContext(ctx, "login rejected", slog.String("email", email), slog.String("reason", "unknown user"))
		return nil, ErrInvalidPassword
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == "" {
		_ = ComparePassword(creds.Password, decoyHash())
		a.logger.InfoContext(ctx, "login rejected", slog.String("email", email), slog.String("reason", "no password set"))
		return nil, ErrInvalidPassword
	}
	if err := ComparePassword(creds.Password, []byte(user.PasswordHash)); err != nil {
		a.logger.InfoContext(ctx, "login rejected", slog.String("email", email), slog.String("reason", "password mismatch"))
		return nil, ErrInvalidPassword
	}

	identity := models.IdentityOf(user)
	return &identity, nil
}

// ValidateCredentials checks a normalized email and a password against the
// sign-in input rules, returning a *ValidationError listing every violation.
func ValidateCredentials(email, password string) error {
	err := validate.Struct(loginInput{Email: email, Password: password})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate credentials: %w", err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := ruleMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
		messages = append(messages, msg)
	}
	return &ValidationError{Messages: messages}
}
