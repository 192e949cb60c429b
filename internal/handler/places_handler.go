package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"travelassist/internal/cache"
	"travelassist/internal/domain"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

type PlacesHandler struct {
	planner *planner.Service
	store   store.Store
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

func NewPlacesHandler(p *planner.Service, s store.Store, c cache.Cache, ttl time.Duration, logger *slog.Logger) *PlacesHandler {
	return &PlacesHandler{
		planner: p,
		store:   s,
		cache:   c,
		ttl:     ttl,
		logger:  logger.With("handler", "places"),
	}
}

type PlacesResponse struct {
	Places []domain.Place `json:"places"`
	Count  int            `json:"count"`
}

// ListPlaces returns every place, or only those of ?type= when given.
func (h *PlacesHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	var (
		places []domain.Place
		err    error
	)
	if category := r.URL.Query().Get("type"); category != "" {
		places, err = h.store.GetPlacesByCategory(r.Context(), domain.PlaceCategory(category))
	} else {
		places, err = h.store.ListPlaces(r.Context())
	}
	if err != nil {
		respondErr(w, h.logger, domain.Upstream("list places", err))
		return
	}

	respondJSON(w, http.StatusOK, PlacesResponse{Places: places, Count: len(places)})
}

func (h *PlacesHandler) AlongRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	routeID, category := q.Get("routeId"), q.Get("type")
	if routeID == "" || category == "" {
		respondError(w, http.StatusBadRequest, "routeId and type are required")
		return
	}

	places, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyPlacesAlongRoute(routeID, category), h.ttl,
		func(ctx context.Context) ([]domain.Place, error) {
			return h.planner.GetPlacesAlongRoute(ctx, routeID, domain.PlaceCategory(category))
		})
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	recordCache(hit)

	respondJSON(w, http.StatusOK, PlacesResponse{Places: places, Count: len(places)})
}

type TaxiHandler struct {
	store  store.Store
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewTaxiHandler(s store.Store, c cache.Cache, ttl time.Duration, logger *slog.Logger) *TaxiHandler {
	return &TaxiHandler{
		store:  s,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("handler", "taxi"),
	}
}

type TaxiDriversResponse struct {
	Drivers []domain.TaxiDriver `json:"drivers"`
	Count   int                 `json:"count"`
	Areas   []string            `json:"areas"`
}

func (h *TaxiHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyTaxiDrivers, h.ttl, h.store.ListTaxiDrivers)
	if err != nil {
		respondErr(w, h.logger, domain.Upstream("list taxi drivers", err))
		return
	}
	recordCache(hit)

	areas := lo.Uniq(lo.FilterMap(drivers, func(d domain.TaxiDriver, _ int) (string, bool) {
		return d.Area, d.Area != ""
	}))
	respondJSON(w, http.StatusOK, TaxiDriversResponse{Drivers: drivers, Count: len(drivers), Areas: areas})
}
