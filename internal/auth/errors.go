package auth

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput matches every *ValidationError.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidPassword is returned for unknown accounts and wrong passwords
	// alike so the response never reveals whether an account exists.
	ErrInvalidPassword = errors.New("invalid password")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError lists every rule the submitted credentials violated.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "Invalid input data: " + strings.Join(e.Messages, ", ")
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
