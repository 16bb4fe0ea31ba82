package middleware

import (
	"context"
	"net/http"

	"connectrpc.com/authn"

	"github.com/hongminglow/all-in-auth/internal/auth"
)

// RequireSession returns middleware that rejects requests without a valid
// session cookie. The enriched session, and the renewed token when one was
// issued, are available to the wrapped handler through SessionFromContext.
//
// Rejections are written by authn as connect error bodies
// ({"code":"unauthenticated","message":...}), not as response envelopes.
func RequireSession(sessions *auth.Sessions, cookies auth.CookieConfig) *authn.Middleware {
	return authn.NewMiddleware(func(ctx context.Context, req *http.Request) (any, error) {
		token, ok := cookies.TokenFromRequest(req)
		if !ok {
			return nil, authn.Errorf("missing session")
		}
		state, err := sessions.Read(ctx, token)
		if err != nil {
			return nil, authn.Errorf("invalid session")
		}
		return state, nil
	})
}

// SessionFromContext returns the session state stored by RequireSession.
func SessionFromContext(ctx context.Context) (auth.SessionState, bool) {
	state, ok := authn.GetInfo(ctx).(auth.SessionState)
	return state, ok
}

// WithSession stores state in ctx the way RequireSession does.
func WithSession(ctx context.Context, state auth.SessionState) context.Context {
	return authn.SetInfo(ctx, state)
}
