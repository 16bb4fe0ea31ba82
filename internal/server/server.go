package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/all-in-auth/internal/auth"
	"github.com/hongminglow/all-in-auth/internal/config"
	"github.com/hongminglow/all-in-auth/internal/http/handlers"
	"github.com/hongminglow/all-in-auth/internal/middleware"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 15 * time.Second

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, logger *slog.Logger, store storage.UserStore) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, logger, store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// NewHandler builds the routed handler without binding a listener.
func NewHandler(cfg config.Config, logger *slog.Logger, store storage.UserStore) http.Handler {
	mux := http.NewServeMux()
	health := handlers.NewHealthHandler(time.Now(), cfg.DirectoryDriver)
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.AuthSecret, cfg.AuthIssuer, cfg.SessionMaxAge, cfg.SessionUpdateAge)
	sessions := auth.NewSessions(
		auth.NewAuthenticator(store, logger),
		auth.NewEnricher(store),
		tokens,
		logger,
	)
	cookies := auth.NewCookieConfig(cfg.Production(), cfg.SessionCookieMaxAge)
	authHandler := handlers.NewAuthHandler(sessions, cookies, logger)
	authHandler.Register(mux, middleware.RequireSession(sessions, cookies).Wrap)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
