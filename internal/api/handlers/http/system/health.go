package system

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"lapor/internal/render"
)

// Checker is a dependency the service needs to answer requests.
type Checker struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	logger   *slog.Logger
	checkers []Checker
}

func NewHandler(logger *slog.Logger, checkers ...Checker) *Handler {
	return &Handler{logger: logger, checkers: checkers}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// SystemReady pings every dependency and answers 503 when one is down.
func (h *Handler) SystemReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checkers))
	for _, c := range h.checkers {
		if err := c.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("dependency", c.Name), slog.Any("error", err))
			checks[c.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "up"
	}

	render.JSON(w, h.logger, status, map[string]any{"checks": checks})
}
