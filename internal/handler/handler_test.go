package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelassist/internal/cache"
	"travelassist/internal/dayplan"
	"travelassist/internal/domain"
	"travelassist/internal/middleware"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

const testSecret = "test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	logger := testLogger()
	return NewRouter(Deps{
		Planner:        planner.New(st, planner.DefaultTariffs(), logger),
		DayPlans:       dayplan.New(st, logger),
		Store:          st,
		Cache:          cache.NewMemoryCache(time.Minute, time.Minute, logger),
		CacheTTL:       time.Minute,
		JWTSecret:      testSecret,
		RequestTimeout: 5 * time.Second,
		Logger:         logger,
	})
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.Seed(context.Background(), store.SeedData()))
	return st
}

func do(t *testing.T, h http.Handler, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPlanTrip(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "Fort Kochi", "to": "Vyttila Hub"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	plan := decode[domain.TripPlan](t, w)
	require.Len(t, plan.Options, 3)
	assert.Equal(t, domain.ModePrivateBus, plan.Options[0].Mode)
	assert.Equal(t, domain.ModeAuto, plan.Options[1].Mode)
	assert.Equal(t, domain.ModeMetro, plan.Options[2].Mode)
}

func TestPlanTrip_CachedPlanKeepsRequestLabels(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	first := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "Fort Kochi", "to": "Vyttila Hub"}, nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "fort kochi", "to": "vyttila hub"}, nil)
	require.Equal(t, http.StatusOK, second.Code)
	plan := decode[domain.TripPlan](t, second)
	assert.Equal(t, "fort kochi", plan.From)
	assert.Len(t, plan.Options, 3)
}

func TestPlanTrip_BadRequests(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "Fort Kochi"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[errorResponse](t, w).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/trip/plan", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// brokenStore fails every catalog read.
type brokenStore struct{ *store.MemoryStore }

var errDown = errors.New("db down")

func (brokenStore) GetRouteByFromTo(context.Context, string, string) (*domain.Route, error) {
	return nil, errDown
}

func (brokenStore) ListRoutes(context.Context) ([]domain.Route, error) {
	return nil, errDown
}

func (brokenStore) Ping(context.Context) error { return errDown }

func TestUpstreamFailuresAre500(t *testing.T) {
	h := newTestRouter(t, brokenStore{seededStore(t)})

	w := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "a", "to": "b"}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[errorResponse](t, w).Error)

	w = do(t, h, http.MethodGet, "/api/bus/routes", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(t, h, http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// slowStore blocks route lookups until the request context ends.
type slowStore struct{ *store.MemoryStore }

func (slowStore) GetRouteByFromTo(ctx context.Context, _, _ string) (*domain.Route, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDeadlineExceededIs503(t *testing.T) {
	st := slowStore{seededStore(t)}
	logger := testLogger()
	h := NewRouter(Deps{
		Planner:        planner.New(st, planner.DefaultTariffs(), logger),
		DayPlans:       dayplan.New(st, logger),
		Store:          st,
		JWTSecret:      testSecret,
		RequestTimeout: 20 * time.Millisecond,
		Logger:         logger,
	})

	w := do(t, h, http.MethodPost, "/api/trip/plan", map[string]string{"from": "Fort Kochi", "to": "Vyttila"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "request timed out", decode[errorResponse](t, w).Error)
}

func TestPrivateOptions(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/api/bus/private-options?routeId=route1&fromStop=Marine%20Drive&toStop=Marine%20Drive", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	opts := decode[domain.PrivateBusOptions](t, w)
	require.Len(t, opts.Buses, 2)
	assert.Equal(t, 23, opts.Buses[0].Fare)
	assert.Equal(t, 19, opts.Buses[1].Fare)

	w = do(t, h, http.MethodGet, "/api/bus/private-options?routeId=route1&fromStop=MARINE%20DRIVE", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MARINE DRIVE", decode[domain.PrivateBusOptions](t, w).FromStop)

	w = do(t, h, http.MethodGet, "/api/bus/private-options?routeId=route1&fromStop=marine%20drive", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "marine drive", decode[domain.PrivateBusOptions](t, w).FromStop)

	w = do(t, h, http.MethodGet, "/api/bus/private-options", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/bus/private-options?routeId=route9", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/api/bus/routes", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[RoutesResponse](t, w).Count)

	w = do(t, h, http.MethodGet, "/api/bus/routes/route2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kakkanad", decode[domain.Route](t, w).To)

	w = do(t, h, http.MethodGet, "/api/bus/routes/route9", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaces(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/api/places", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[PlacesResponse](t, w).Count)

	w = do(t, h, http.MethodGet, "/api/places?type=food", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[PlacesResponse](t, w).Count)

	w = do(t, h, http.MethodGet, "/api/places/along-route?routeId=route2&type=activity", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PlacesResponse](t, w)
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "Lulu Mall", resp.Places[0].Name)

	w = do(t, h, http.MethodGet, "/api/places/along-route?routeId=route1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/places/along-route?routeId=route9&type=food", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaxis(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/api/taxis", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[TaxiDriversResponse](t, w)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"Fort Kochi", "Vyttila"}, resp.Areas)
}

func bearer(t *testing.T, userID string) http.Header {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID:           userID,
		Role:             "tourist",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestDayPlan(t *testing.T) {
	h := newTestRouter(t, seededStore(t))
	auth := bearer(t, "user-1")

	w := do(t, h, http.MethodPost, "/api/dayplan", map[string]any{"duration": "full", "interests": []string{"food"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/api/dayplan", map[string]any{"interests": []string{"food"}}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/dayplan", map[string]any{"duration": "full", "interests": []string{"food"}}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	plan := decode[domain.DayPlan](t, w)
	assert.Equal(t, "user-1", plan.UserID)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "9:00", plan.Items[0].Time)
	assert.Equal(t, "10:00", plan.Items[1].Time)

	w = do(t, h, http.MethodPost, "/api/dayplan", map[string]any{"duration": "halfDay", "interests": []string{"food"}}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	half := decode[domain.DayPlan](t, w)
	assert.Equal(t, "half", half.Duration)

	w = do(t, h, http.MethodGet, "/api/dayplan/my", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	plans := decode[[]domain.DayPlan](t, w)
	require.Len(t, plans, 2)
	assert.ElementsMatch(t, []string{plan.ID, half.ID}, []string{plans[0].ID, plans[1].ID})

	w = do(t, h, http.MethodGet, "/api/dayplan/my", nil, bearer(t, "user-2"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.DayPlan](t, w))
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(t, h, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[ReadyResponse](t, w).Ready)

	w = do(t, newTestRouter(t, store.NewMemoryStore()), http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStats(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodGet, "/api/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[StatsResponse](t, w)
	assert.Equal(t, 2, resp.Catalog.Routes)
	assert.Equal(t, "memory", resp.Catalog.Backend)
	assert.Greater(t, resp.Server.RequestCount, int64(0))
	assert.Nil(t, resp.RateLimit)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t, seededStore(t))

	w := do(t, h, http.MethodOptions, "/api/trip/plan", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimitIsCounted(t *testing.T) {
	st := seededStore(t)
	logger := testLogger()
	before := ServerStats.rateLimitBlocked.Load()
	limiter := middleware.NewRateLimiter(1, time.Minute, nil, func(string) { ServerStats.IncRateLimitBlocked() }, logger)
	defer limiter.Stop()

	h := NewRouter(Deps{
		Planner:  planner.New(st, planner.DefaultTariffs(), logger),
		DayPlans: dayplan.New(st, logger),
		Store:    st,
		Cache:    cache.NewMemoryCache(time.Minute, time.Minute, logger),
		CacheTTL: time.Minute,
		Limiter:  limiter,
		Logger:   logger,
	})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, before+1, ServerStats.rateLimitBlocked.Load())
}
