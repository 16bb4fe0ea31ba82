package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/all-in-auth/internal/models"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity returns the identity the token was issued for.
func (c SessionClaims) Identity() models.Identity {
	return models.Identity{ID: c.Subject, Email: c.Email, Name: c.Name}
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret    []byte
	issuer    string
	maxAge    time.Duration
	updateAge time.Duration
}

// NewTokenManager creates a manager with the provided secret and issuer.
// Tokens are valid for maxAge and become due for renewal after updateAge.
func NewTokenManager(secret, issuer string, maxAge, updateAge time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		maxAge:    maxAge,
		updateAge: updateAge,
	}
}

// Issue signs a token for id, valid from now, and returns it with its expiry.
func (t *TokenManager) Issue(id models.Identity, now time.Time) (string, time.Time, error) {
	expires := now.Add(t.maxAge)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: id.Email,
		Name:  id.Name,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expires.Truncate(time.Second), nil
}

// Parse verifies the signature, issuer and lifetime of tokenString.
func (t *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NeedsRenewal reports whether at least updateAge has passed since the token
// was issued.
func (t *TokenManager) NeedsRenewal(claims *SessionClaims, now time.Time) bool {
	if claims == nil || claims.IssuedAt == nil {
		return false
	}
	return now.Sub(claims.IssuedAt.Time) >= t.updateAge
}
