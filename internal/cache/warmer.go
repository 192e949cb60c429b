package cache

import (
	"context"
	"log/slog"
	"time"

	"travelassist/internal/domain"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

var warmedCategories = []domain.PlaceCategory{
	domain.PlaceFood,
	domain.PlaceActivity,
	domain.PlaceAttraction,
}

type CacheWarmer struct {
	cache   Cache
	store   store.Store
	planner *planner.Service
	ttl     time.Duration
	logger  *slog.Logger
}

func NewCacheWarmer(cache Cache, st store.Store, p *planner.Service, ttl time.Duration, logger *slog.Logger) *CacheWarmer {
	return &CacheWarmer{
		cache:   cache,
		store:   st,
		planner: p,
		ttl:     ttl,
		logger:  logger.With("component", "cache_warmer"),
	}
}

// WarmAll drops cached trip plans and reloads the catalog lookups. Failed
// steps are logged and skipped.
func (w *CacheWarmer) WarmAll(ctx context.Context) error {
	start := time.Now()
	w.logger.Info("starting cache warming")

	if err := w.cache.DeletePattern(ctx, PatternTripPlans); err != nil {
		w.logger.Error("failed to drop trip plans", "error", err)
	}

	routes, err := w.warmRoutes(ctx)
	if err != nil {
		w.logger.Error("failed to warm routes", "error", err)
	}

	if err := w.warmPlacesAlongRoutes(ctx, routes); err != nil {
		w.logger.Error("failed to warm places along routes", "error", err)
	}

	if err := w.warmTaxiDrivers(ctx); err != nil {
		w.logger.Error("failed to warm taxi drivers", "error", err)
	}

	w.logger.Info("cache warming completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *CacheWarmer) warmRoutes(ctx context.Context) ([]domain.Route, error) {
	start := time.Now()

	routes, err := w.store.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.cache.SetJSON(ctx, KeyRoutes, routes, w.ttl); err != nil {
		return routes, err
	}

	warmed := 0
	for _, r := range routes {
		if err := w.cache.SetJSON(ctx, KeyRoute(r.ID), r, w.ttl); err != nil {
			w.logger.Debug("failed to cache route", "route_id", r.ID, "error", err)
			continue
		}
		warmed++
	}

	w.logger.Info("warmed routes",
		"routes_warmed", warmed,
		"total_routes", len(routes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return routes, nil
}

func (w *CacheWarmer) warmPlacesAlongRoutes(ctx context.Context, routes []domain.Route) error {
	start := time.Now()
	warmed := 0

	for _, r := range routes {
		for _, category := range warmedCategories {
			places, err := w.planner.GetPlacesAlongRoute(ctx, r.ID, category)
			if err != nil {
				return err
			}
			if err := w.cache.SetJSON(ctx, KeyPlacesAlongRoute(r.ID, string(category)), places, w.ttl); err != nil {
				w.logger.Debug("failed to cache places", "route_id", r.ID, "category", category, "error", err)
				continue
			}
			warmed++
		}
	}

	w.logger.Info("warmed places along routes",
		"entries_warmed", warmed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (w *CacheWarmer) warmTaxiDrivers(ctx context.Context) error {
	drivers, err := w.store.ListTaxiDrivers(ctx)
	if err != nil {
		return err
	}
	if err := w.cache.SetJSON(ctx, KeyTaxiDrivers, drivers, w.ttl); err != nil {
		return err
	}
	w.logger.Info("warmed taxi drivers", "drivers", len(drivers))
	return nil
}

// ScheduleRefresh re-warms the cache every interval until ctx is done.
func (w *CacheWarmer) ScheduleRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("scheduled cache refresh", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.logger.Info("cache refresh starting")
			if err := w.WarmAll(ctx); err != nil {
				w.logger.Error("cache refresh failed", "error", err)
			}
		}
	}
}
