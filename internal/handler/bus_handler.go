package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"travelassist/internal/cache"
	"travelassist/internal/domain"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

type BusHandler struct {
	planner *planner.Service
	store   store.Store
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

func NewBusHandler(p *planner.Service, s store.Store, c cache.Cache, ttl time.Duration, logger *slog.Logger) *BusHandler {
	return &BusHandler{
		planner: p,
		store:   s,
		cache:   c,
		ttl:     ttl,
		logger:  logger.With("handler", "bus"),
	}
}

func (h *BusHandler) PrivateOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	routeID, fromStop, toStop := q.Get("routeId"), q.Get("fromStop"), q.Get("toStop")
	if routeID == "" {
		respondError(w, http.StatusBadRequest, "routeId is required")
		return
	}

	opts, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyPrivateBusOptions(routeID, fromStop, toStop), h.ttl,
		func(ctx context.Context) (*domain.PrivateBusOptions, error) {
			return h.planner.GetPrivateBusOptions(ctx, routeID, fromStop, toStop)
		})
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	recordCache(hit)
	opts.FromStop, opts.ToStop = fromStop, toStop

	respondJSON(w, http.StatusOK, opts)
}

type RoutesResponse struct {
	Routes []domain.Route `json:"routes"`
	Count  int            `json:"count"`
}

func (h *BusHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyRoutes, h.ttl, h.store.ListRoutes)
	if err != nil {
		respondErr(w, h.logger, domain.Upstream("list routes", err))
		return
	}
	recordCache(hit)

	respondJSON(w, http.StatusOK, RoutesResponse{Routes: routes, Count: len(routes)})
}

func (h *BusHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("routeId")

	route, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyRoute(routeID), h.ttl,
		func(ctx context.Context) (*domain.Route, error) {
			return h.planner.GetRouteDetails(ctx, routeID)
		})
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	recordCache(hit)

	respondJSON(w, http.StatusOK, route)
}
