package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/hongminglow/all-in-auth/internal/models"
)

// SignInResult is the outcome of a successful sign-in.
type SignInResult struct {
	Identity models.Identity
	Token    string
	Expires  time.Time
}

// SessionState is the outcome of reading a session token.
type SessionState struct {
	Session models.Session
	// RenewedToken is set when the token was reissued and the cookie should
	// be replaced.
	RenewedToken string
}

// Sessions combines credential checks, token issuance and enrichment into
// the sign-in and session-read flows.
type Sessions struct {
	authenticator *Authenticator
	enricher      *Enricher
	tokens        *TokenManager
	logger        *slog.Logger
	now           func() time.Time
}

// NewSessions wires the session flows.
func NewSessions(a *Authenticator, e *Enricher, t *TokenManager, logger *slog.Logger) *Sessions {
	return &Sessions{authenticator: a, enricher: e, tokens: t, logger: logger, now: time.Now}
}

// SignIn authorizes creds and issues a token. A nil result with a nil error
// means no credentials were supplied.
func (s *Sessions) SignIn(ctx context.Context, creds Credentials) (*SignInResult, error) {
	identity, err := s.authenticator.Authorize(ctx, creds)
	if err != nil || identity == nil {
		return nil, err
	}
	token, expires, err := s.tokens.Issue(*identity, s.now())
	if err != nil {
		return nil, err
	}
	return &SignInResult{Identity: *identity, Token: token, Expires: expires}, nil
}

// Read decodes token into an enriched session, reissuing the token once it is
// due for renewal. Enrichment failures are logged and the token contents are
// served as-is.
func (s *Sessions) Read(ctx context.Context, token string) (SessionState, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return SessionState{}, err
	}

	var state SessionState
	now := s.now()
	expires := claims.ExpiresAt.Time
	if s.tokens.NeedsRenewal(claims, now) {
		renewed, renewedExpires, err := s.tokens.Issue(claims.Identity(), now)
		if err != nil {
			return SessionState{}, err
		}
		state.RenewedToken = renewed
		expires = renewedExpires
	}

	session := models.SessionFromIdentity(claims.Identity(), expires)
	enriched, err := s.enricher.Enrich(ctx, session)
	if err != nil {
		s.logger.ErrorContext(ctx, "session enrichment failed", slog.String("email", session.User.Email), slog.Any("error", err))
	}
	state.Session = enriched
	return state, nil
}
