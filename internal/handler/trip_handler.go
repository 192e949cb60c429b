package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"travelassist/internal/cache"
	"travelassist/internal/domain"
	"travelassist/internal/planner"
)

type TripHandler struct {
	planner *planner.Service
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

func NewTripHandler(p *planner.Service, c cache.Cache, ttl time.Duration, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		planner: p,
		cache:   c,
		ttl:     ttl,
		logger:  logger.With("handler", "trip"),
	}
}

type planTripRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *TripHandler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req planTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, h.logger, err)
		return
	}
	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	plan, hit, err := cache.Fetch(r.Context(), h.cache, cache.KeyTripPlan(from, to), h.ttl,
		func(ctx context.Context) (*domain.TripPlan, error) {
			return h.planner.PlanTrip(ctx, from, to)
		})
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	recordCache(hit)

	// Cached plans may come from a differently spelled query.
	plan.From, plan.To = from, to

	h.logger.Debug("trip plan served",
		"from", from,
		"to", to,
		"options", len(plan.Options),
		"cache_hit", hit,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	respondJSON(w, http.StatusOK, plan)
}

func recordCache(hit bool) {
	if hit {
		ServerStats.IncCacheHits()
	} else {
		ServerStats.IncCacheMisses()
	}
}
