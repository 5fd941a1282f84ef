package handler

import (
	"net/http"
	"time"

	"github.com/chessdir/tournaments/internal/api/respond"
)

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, storage driver and enabled features.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	features := []string{"pagination", "case_insensitive_search", "etag_support"}
	if h.cfg.CacheEnabled {
		features = append(features, "in_memory_cache")
	}
	if h.cfg.SeedEnabled {
		features = append(features, "seed_endpoint")
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":     "Chess Tournament Directory API",
		"version":  "1.0.0",
		"status":   "running",
		"docs":     "/docs",
		"storage":  h.cfg.StorageDriver,
		"features": features,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now(),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Always healthy on the memory store.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "memory",
			"timestamp": h.now(),
		})
		return
	}

	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now(),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now(),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys, generation).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now(),
	})
}

func (h *Handler) now() string {
	return h.clock.Now().UTC().Format(time.RFC3339)
}
