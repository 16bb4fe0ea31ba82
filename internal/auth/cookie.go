package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "next-auth.session-token"

// CookieConfig describes how the session cookie is transported.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// NewCookieConfig returns the session cookie settings. Secure cookies are
// only required in production, where the service sits behind TLS.
func NewCookieConfig(production bool, maxAge time.Duration) CookieConfig {
	return CookieConfig{Name: SessionCookieName, Secure: production, MaxAge: maxAge}
}

// SessionCookie wraps token in a cookie.
func (c CookieConfig) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns a cookie that deletes the session cookie.
func (c CookieConfig) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest returns the session token carried by r, if any.
func (c CookieConfig) TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
