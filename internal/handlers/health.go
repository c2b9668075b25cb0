package handlers

import (
	"errors"
	"net/http"

	"github.com/reelzone/backend/internal/kv"
)

// HealthHandler responds with service health information.
type HealthHandler struct {
	Profile string
	Store   kv.Store
}

// Handle implements GET /healthz. A durable store that cannot be read reports degraded.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload := map[string]string{
		"status":  "ok",
		"profile": h.Profile,
	}
	status := http.StatusOK

	if h.Store != nil {
		if _, err := h.Store.Get(ctx, kv.KeyVideos); err != nil && !errors.Is(err, kv.ErrNotFound) {
			payload["status"] = "degraded"
			payload["error"] = "durable store unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(ctx, w, status, payload)
}
