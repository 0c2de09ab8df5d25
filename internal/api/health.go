package api

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis   *redis.Client // nil when the booking lock is not configured
	backend string
	env     string
	version string
}

func NewHealthHandler(redisClient *redis.Client, backend, env, version string) *HealthHandler {
	return &HealthHandler{
		redis:   redisClient,
		backend: backend,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Backend      string            `json:"backend"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness reports dependency health. A down Redis only degrades the
// service: bookings still commit, guarded by the availability re-check
// alone.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "ok"

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		err := h.redis.Ping(ctx).Err()
		cancel()
		if err != nil {
			deps["redis"] = "down"
			status = "degraded"
		} else {
			deps["redis"] = "ok"
		}
	} else {
		deps["redis"] = "disabled"
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Backend:      h.backend,
		Dependencies: deps,
	})
}
