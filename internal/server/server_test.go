package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-auth/internal/auth"
	"github.com/hongminglow/all-in-auth/internal/config"
	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage/memory"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	handler http.Handler
	user    models.User
	cfg     config.Config
}

func newFixture(t *testing.T, production bool) fixture {
	t.Helper()
	env := "development"
	if production {
		env = "production"
	}
	cfg := config.Config{
		Port:                "0",
		Environment:         env,
		CORSOrigins:         []string{"*"},
		AuthSecret:          testSecret,
		AuthIssuer:          "test-issuer",
		SessionMaxAge:       24 * time.Hour,
		SessionUpdateAge:    12 * time.Hour,
		SessionCookieMaxAge: 30 * 24 * time.Hour,
		DirectoryDriver:     config.DriverMemory,
	}
	store := memory.NewUserStore()
	hash, err := auth.HashPassword("pw123")
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{
		Email:        "a@b.com",
		Name:         "A",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fixture{handler: NewHandler(cfg, logger, store), user: user, cfg: cfg}
}

func (f fixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func signInRequest(email, password string) *http.Request {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignIn_SetsSessionCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec, env := f.do(t, signInRequest("  A@B.com ", "pw123"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login successful", env.Message)

	var data struct {
		User    models.Identity `json:"user"`
		Expires string          `json:"expires"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, models.Identity{ID: f.user.ID, Email: "a@b.com", Name: "A"}, data.User)
	assert.NotEmpty(t, data.Expires)

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 30*24*60*60, c.MaxAge)
}

func TestSignIn_SecureCookieInProduction(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	rec, _ := f.do(t, signInRequest("a@b.com", "pw123"))
	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestSignIn_FormEncoded(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	form := url.Values{"email": {"a@b.com"}, "password": {"pw123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec, _ := f.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, sessionCookie(t, rec))
}

func TestSignIn_Failures(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantMsg    string
	}{
		{"missing credentials", "", "", http.StatusUnauthorized, "missing credentials"},
		{
			"malformed input", "not-an-email", "pw", http.StatusBadRequest,
			"Invalid input data: invalid email format, password must be at least 4 characters long",
		},
		{"unknown user", "nobody@b.com", "pw123", http.StatusUnauthorized, "invalid password"},
		{"wrong password", "a@b.com", "wrong", http.StatusUnauthorized, "invalid password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, env := f.do(t, signInRequest(tc.email, tc.password))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMsg, env.Message)
			assert.Nil(t, sessionCookie(t, rec))
		})
	}
}

func TestSignIn_RejectsBadPayloadAndMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader("{"))
	rec, _ := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/callback/credentials", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSession_WithoutCookieIsEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, string(env.Data))
}

func TestSession_ReturnsEnrichedUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	signIn, _ := f.do(t, signInRequest("a@b.com", "pw123"))
	cookie := sessionCookie(t, signIn)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec, env := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookie(t, rec), "fresh token must not be renewed")

	var session models.Session
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, f.user.ID, session.User.ID)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.NotNil(t, session.User.CreatedAt)
	assert.NotContains(t, string(env.Data), "password")
}

func TestSession_RenewsOldToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	tokens := auth.NewTokenManager(testSecret, f.cfg.AuthIssuer, f.cfg.SessionMaxAge, f.cfg.SessionUpdateAge)
	old, _, err := tokens.Issue(models.IdentityOf(f.user), time.Now().Add(-13*time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: old})
	rec, _ := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	renewed := sessionCookie(t, rec)
	require.NotNil(t, renewed)
	assert.NotEqual(t, old, renewed.Value)
}

func TestSession_InvalidCookieIsCleared(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	rec, env := f.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, string(env.Data))

	cleared := sessionCookie(t, rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestSignOut_ClearsCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec, env := f.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed out", env.Message)
	cleared := sessionCookie(t, rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestMe_RequiresSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":"unauthenticated","message":"missing session"}`, rec.Body.String())

	signIn, _ := f.do(t, signInRequest("a@b.com", "pw123"))
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(sessionCookie(t, signIn))
	rec, env := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.SessionUser
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, f.user.ID, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	rec, env := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"ok"`)
	assert.Contains(t, string(env.Data), `"directory":"memory"`)
}

func TestMe_RenewsOldToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	tokens := auth.NewTokenManager(testSecret, f.cfg.AuthIssuer, f.cfg.SessionMaxAge, f.cfg.SessionUpdateAge)
	old, _, err := tokens.Issue(models.IdentityOf(f.user), time.Now().Add(-13*time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: old})
	rec, env := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	renewed := sessionCookie(t, rec)
	require.NotNil(t, renewed)
	assert.NotEqual(t, old, renewed.Value)
	claims, err := tokens.Parse(renewed.Value)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, claims.Subject)

	var user models.SessionUser
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, f.user.ID, user.ID)
}

func TestMe_FreshTokenKeepsCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	signIn, _ := f.do(t, signInRequest("a@b.com", "pw123"))
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(sessionCookie(t, signIn))
	rec, _ := f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookie(t, rec))
}
