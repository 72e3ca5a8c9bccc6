package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/internal/services"
)

// Pinger is a dependency the readiness check checks.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	agents *services.AgentService
	checks map[string]Pinger
	start  time.Time
}

func NewHealthHandler(agents *services.AgentService, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{agents: agents, checks: checks, start: time.Now()}
}

// Health aggregates the agent health checks. It always answers 200; a failing
// agent only degrades the reported status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, agents := h.agents.HealthCheck(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"service":   "jobzee",
		"uptime":    time.Since(h.start).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
		"agents":    agents,
	})
}

// Ready pings every registered dependency and answers 503 if one fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	httpx.JSON(w, status, map[string]any{"status": state, "checks": results})
}
