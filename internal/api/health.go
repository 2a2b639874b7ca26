package api

import (
	"net/http"

	"github.com/tripweaver/assistant/internal/api/respond"
	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/health"
)

type HealthHandler struct {
	svc   *health.Service
	store catalog.Store
}

func NewHealthHandler(svc *health.Service, store catalog.Store) *HealthHandler {
	return &HealthHandler{svc: svc, store: store}
}

// CheckHealth reports the cached aggregate health of all dependencies.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if h.svc != nil && !h.svc.IsHealthy() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"unhealthy": h.svc.Unhealthy(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckStorageHealth runs a live probe against the catalog database.
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
