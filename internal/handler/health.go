package handler

import (
	"context"
	"net/http"
	"time"

	"travelassist/internal/store"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type ReadyResponse struct {
	Ready      bool      `json:"ready"`
	Routes     int       `json:"routeCount"`
	Error      string    `json:"error,omitempty"`
	ServerTime time.Time `json:"serverTime"`
}

// Readyz reports ready once the store answers a ping and holds routes.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadyResponse{ServerTime: time.Now()}
	if err := h.store.Ping(ctx); err != nil {
		resp.Error = err.Error()
	} else if stats, err := h.store.Stats(ctx); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Routes = stats.Routes
		resp.Ready = stats.IsLoaded
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
