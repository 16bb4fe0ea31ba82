package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/all-in-auth/internal/http/respond"
)

// HealthHandler reports uptime and which user directory backs the service.
type HealthHandler struct {
	startedAt time.Time
	directory string
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, directory string) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, directory: directory}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status":    "ok",
		"directory": h.directory,
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
