package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

// HealthHandler reports service liveness and dependency reachability.
type HealthHandler struct {
	store   contracts.Store
	cache   *redis.Client
	env     string
	started time.Time
	log     *logger.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(store contracts.Store, cache *redis.Client, env string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		cache:   cache,
		env:     env,
		started: time.Now(),
		log:     log,
	}
}

type dependencyCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Check handles GET /health. A store outage returns 503; a cache
// outage only degrades the reported status, reads fall through to the
// store.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]dependencyCheck, 2)
	overall := "ok"
	status := http.StatusOK

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Error("Store health check failed")
		checks["store"] = dependencyCheck{Status: "down", Error: err.Error()}
		overall = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		checks["store"] = dependencyCheck{Status: "ok", Latency: time.Since(start).String()}
	}

	switch {
	case !h.cache.Enabled():
		checks["cache"] = dependencyCheck{Status: "disabled"}
	default:
		if err := h.cache.Ping(ctx); err != nil {
			h.log.WithError(err).Warn("Cache health check failed")
			checks["cache"] = dependencyCheck{Status: "down", Error: err.Error()}
			if overall == "ok" {
				overall = "degraded"
			}
		} else {
			checks["cache"] = dependencyCheck{Status: "ok"}
		}
	}

	respondJSON(w, status, map[string]interface{}{
		"status":  overall,
		"service": "horoscope-api",
		"env":     h.env,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"checks":  checks,
	})
}
