package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Directory drivers accepted by DIRECTORY_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins []string

	AuthSecret          string
	AuthIssuer          string
	SessionMaxAge       time.Duration
	SessionUpdateAge    time.Duration
	SessionCookieMaxAge time.Duration

	DirectoryDriver string
	DatabaseURL     string
	SQLitePath      string
	RedisURL        string
	UserCacheTTL    time.Duration
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		Environment: strings.ToLower(fallback(os.Getenv("APP_ENV"), "development")),
		LogLevel:    strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),

		AuthSecret:          strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AuthIssuer:          fallback(os.Getenv("AUTH_ISSUER"), "all-in-auth"),
		SessionMaxAge:       durationEnv("SESSION_MAX_AGE_HOURS", 24, time.Hour),
		SessionUpdateAge:    durationEnv("SESSION_UPDATE_AGE_HOURS", 12, time.Hour),
		SessionCookieMaxAge: durationEnv("SESSION_COOKIE_MAX_AGE_DAYS", 30, 24*time.Hour),

		DirectoryDriver: strings.ToLower(fallback(os.Getenv("DIRECTORY_DRIVER"), DriverPostgres)),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:      fallback(os.Getenv("SQLITE_PATH"), "data/users.db"),
		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
		UserCacheTTL:    durationEnv("USER_CACHE_TTL_SECONDS", 60, time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required keys and cross-field constraints.
func (c Config) Validate() error {
	if c.AuthSecret == "" {
		return errors.New("AUTH_SECRET is required")
	}
	if c.SessionUpdateAge >= c.SessionMaxAge {
		return errors.New("SESSION_UPDATE_AGE_HOURS must be lower than SESSION_MAX_AGE_HOURS")
	}
	switch c.DirectoryDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown DIRECTORY_DRIVER %q", c.DirectoryDriver)
	}
	return nil
}

// Production reports whether the service runs in production, which turns on
// secure cookies.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func durationEnv(key string, def int, unit time.Duration) time.Duration {
	if n, err := strconv.Atoi(fallback(os.Getenv(key), "")); err == nil && n > 0 {
		return time.Duration(n) * unit
	}
	return time.Duration(def) * unit
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
