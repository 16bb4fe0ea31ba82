package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/hongminglow/all-in-auth/internal/auth"
	"github.com/hongminglow/all-in-auth/internal/http/respond"
	"github.com/hongminglow/all-in-auth/internal/middleware"
	"github.com/hongminglow/all-in-auth/internal/models/dto"
)

const maxLoginBody = 1 << 16

// AuthHandler owns the sign-in, session and sign-out endpoints.
type AuthHandler struct {
	sessions *auth.Sessions
	cookies  auth.CookieConfig
	logger   *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(sessions *auth.Sessions, cookies auth.CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies, logger: logger}
}

// Register attaches auth routes to the mux. requireSession guards the
// routes that need a signed-in user.
func (h *AuthHandler) Register(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.HandleFunc("/api/auth/callback/credentials", h.handleSignIn)
	mux.HandleFunc("/api/auth/session", h.handleSession)
	mux.HandleFunc("/api/auth/signout", h.handleSignOut)
	mux.Handle("/api/me", requireSession(http.HandlerFunc(h.handleMe)))
}

func (h *AuthHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeLogin(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	res, err := h.sessions.SignIn(r.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, verr.Error())
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		respond.Error(w, http.StatusUnauthorized, auth.ErrInvalidPassword.Error())
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "sign-in failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "failed to sign in")
		return
	case res == nil:
		respond.Error(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	http.SetCookie(w, h.cookies.SessionCookie(res.Token))
	h.logger.InfoContext(r.Context(), "signed in", slog.String("user_id", res.Identity.ID))
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		User:    res.Identity,
		Expires: res.Expires.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, ok := h.cookies.TokenFromRequest(r)
	if !ok {
		respond.JSON(w, http.StatusOK, "no active session", struct{}{})
		return
	}

	state, err := h.sessions.Read(r.Context(), token)
	if err != nil {
		h.logger.DebugContext(r.Context(), "discarding session cookie", slog.Any("error", err))
		http.SetCookie(w, h.cookies.ClearCookie())
		respond.JSON(w, http.StatusOK, "no active session", struct{}{})
		return
	}
	if state.RenewedToken != "" {
		http.SetCookie(w, h.cookies.SessionCookie(state.RenewedToken))
	}
	respond.JSON(w, http.StatusOK, "session active", state.Session)
}

func (h *AuthHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, h.cookies.ClearCookie())
	respond.JSON(w, http.StatusOK, "signed out", nil)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	if state.RenewedToken != "" {
		http.SetCookie(w, h.cookies.SessionCookie(state.RenewedToken))
	}
	respond.JSON(w, http.StatusOK, "ok", state.Session.User)
}

// decodeLogin accepts both JSON and form-encoded sign-in bodies.
func decodeLogin(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return dto.LoginRequest{}, err
		}
		return dto.LoginRequest{Email: r.PostForm.Get("email"), Password: r.PostForm.Get("password")}, nil
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return dto.LoginRequest{}, err
	}
	return req, nil
}
