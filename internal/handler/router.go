package handler

import (
	"log/slog"
	"net/http"
	"time"

	"travelassist/internal/cache"
	"travelassist/internal/dayplan"
	"travelassist/internal/middleware"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

// Deps is everything the HTTP surface needs. Limiter may be nil to disable
// rate limiting; RequestTimeout <= 0 disables the per-request deadline.
type Deps struct {
	Planner        *planner.Service
	DayPlans       *dayplan.Service
	Store          store.Store
	Cache          cache.Cache
	CacheTTL       time.Duration
	Limiter        *middleware.RateLimiter
	JWTSecret      string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	trip := NewTripHandler(d.Planner, d.Cache, d.CacheTTL, d.Logger)
	bus := NewBusHandler(d.Planner, d.Store, d.Cache, d.CacheTTL, d.Logger)
	places := NewPlacesHandler(d.Planner, d.Store, d.Cache, d.CacheTTL, d.Logger)
	taxis := NewTaxiHandler(d.Store, d.Cache, d.CacheTTL, d.Logger)
	plans := NewDayPlanHandler(d.DayPlans, d.Logger)
	health := NewHealthHandler(d.Store)
	stats := NewStatsHandler(d.Store, d.Limiter)

	auth := middleware.JWTAuth(d.JWTSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/trip/plan", trip.PlanTrip)

	mux.HandleFunc("GET /api/bus/private-options", bus.PrivateOptions)
	mux.HandleFunc("GET /api/bus/routes", bus.ListRoutes)
	mux.HandleFunc("GET /api/bus/routes/{routeId}", bus.GetRoute)

	mux.HandleFunc("GET /api/places", places.ListPlaces)
	mux.HandleFunc("GET /api/places/along-route", places.AlongRoute)

	mux.HandleFunc("GET /api/taxis", taxis.ListDrivers)

	mux.Handle("POST /api/dayplan", auth(http.HandlerFunc(plans.Create)))
	mux.Handle("GET /api/dayplan/my", auth(http.HandlerFunc(plans.Mine)))

	mux.HandleFunc("GET /api/stats", stats.GetStats)
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)

	var h http.Handler = mux
	if d.RequestTimeout > 0 {
		h = middleware.Timeout(d.RequestTimeout)(h)
	}
	h = GzipMiddleware(h)
	if d.Limiter != nil {
		h = d.Limiter.Middleware(h)
	}
	h = CORSMiddleware(h)
	h = countRequests(h)
	h = middleware.RequestID(d.Logger)(h)
	return h
}
