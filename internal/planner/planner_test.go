package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelassist/internal/domain"
	"travelassist/internal/geo"
	"travelassist/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSeededService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.Seed(context.Background(), store.SeedData()))
	return New(s, DefaultTariffs(), testLogger()), s
}

func route1Length(t *testing.T, s *store.MemoryStore) float64 {
	t.Helper()
	r, err := s.GetRouteByID(context.Background(), "route1")
	require.NoError(t, err)
	return geo.RouteLengthKm(r.Stops)
}

func round(x float64) int { return int(math.Round(x)) }

func modes(plan *domain.TripPlan) []domain.TravelMode {
	return lo.Map(plan.Options, func(o domain.TripOption, _ int) domain.TravelMode { return o.Mode })
}

func TestPlanTrip_AllModesInFixedOrder(t *testing.T) {
	svc, st := newSeededService(t)
	d := route1Length(t, st)

	plan, err := svc.PlanTrip(context.Background(), "Fort Kochi", "Vyttila Hub")
	require.NoError(t, err)
	assert.Equal(t, "Fort Kochi", plan.From)
	assert.Equal(t, "Vyttila Hub", plan.To)
	require.Equal(t, []domain.TravelMode{domain.ModePrivateBus, domain.ModeAuto, domain.ModeMetro}, modes(plan))

	private := plan.Options[0]
	assert.Equal(t, "route1", private.RouteID)
	assert.Equal(t, 45, private.Summary.DurationMinutes)
	require.NotNil(t, private.Summary.FrequencyMinutes)
	assert.Equal(t, 10, *private.Summary.FrequencyMinutes)
	assert.Equal(t, round(10+2.5*d), private.Summary.FareEstimate)

	auto := plan.Options[1]
	assert.Empty(t, auto.RouteID)
	assert.Nil(t, auto.Summary.FrequencyMinutes)
	assert.Equal(t, max(15, round(d/25*60)), auto.Summary.DurationMinutes)
	assert.Equal(t, round(15*d+30), auto.Summary.FareEstimate)

	metro := plan.Options[2]
	assert.Equal(t, "route1", metro.RouteID)
	assert.Equal(t, 35, metro.Summary.DurationMinutes)
	require.NotNil(t, metro.Summary.FrequencyMinutes)
	assert.Equal(t, 12, *metro.Summary.FrequencyMinutes)
	assert.Equal(t, round(15+3*d), metro.Summary.FareEstimate)
}

func TestPlanTrip_PlacesAlongRoute(t *testing.T) {
	svc, _ := newSeededService(t)

	plan, err := svc.PlanTrip(context.Background(), "Fort Kochi", "Vyttila Hub")
	require.NoError(t, err)

	names := func(ps []domain.Place) []string {
		return lo.Map(ps, func(p domain.Place, _ int) string { return p.Name })
	}
	for _, opt := range plan.Options {
		assert.ElementsMatch(t, []string{"Fort Kochi Beach Cafe", "Marine Drive Restaurant"}, names(opt.PlacesAlongRoute.Food), opt.Mode)
		assert.Equal(t, []string{"Chinese Fishing Nets"}, names(opt.PlacesAlongRoute.Attractions), opt.Mode)
		assert.NotNil(t, opt.PlacesAlongRoute.Activities)
		assert.Empty(t, opt.PlacesAlongRoute.Activities, "Lulu Mall is over 5 km from every stop")
	}

	// Bundles are independent per option.
	plan.Options[0].PlacesAlongRoute.Food[0].Name = "mutated"
	assert.NotEqual(t, "mutated", plan.Options[1].PlacesAlongRoute.Food[0].Name)
}

func TestPlanTrip_ReverseDirectionResolvesSameRoute(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	forward, err := svc.PlanTrip(ctx, "Fort Kochi", "Vyttila Hub")
	require.NoError(t, err)
	reverse, err := svc.PlanTrip(ctx, "Vyttila Hub", "Fort Kochi")
	require.NoError(t, err)

	assert.Equal(t, modes(forward), modes(reverse))
	assert.Equal(t, forward.Options[0].RouteID, reverse.Options[0].RouteID)
	assert.Equal(t, forward.Options[0].Summary, reverse.Options[0].Summary)
}

func TestResolveRoute_EitherOrientation(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	tests := []struct {
		from, to string
		want     string
	}{
		{"Vyttila", "Kakkanad", "route2"},
		{"Kakkanad", "Vyttila", "route2"},
		{"Fort Kochi", "Vyttila Hub", "route1"},
		{"vyttila hub", "FORT KOCHI", "route1"},
		{"Fort Kochi beach", "Vyttila Hub", "route1"},
	}
	for _, tt := range tests {
		route, err := svc.ResolveRoute(ctx, tt.from, tt.to)
		require.NoError(t, err)
		require.NotNil(t, route, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.want, route.ID, "%s -> %s", tt.from, tt.to)
	}

	route, err := svc.ResolveRoute(ctx, "Munnar", "Alleppey")
	require.NoError(t, err)
	assert.Nil(t, route)
}

func TestPlanTrip_RouteWithoutPrivateOrMetro(t *testing.T) {
	svc, _ := newSeededService(t)

	plan, err := svc.PlanTrip(context.Background(), "Kakkanad", "Vyttila")
	require.NoError(t, err)
	require.Equal(t, []domain.TravelMode{domain.ModeAuto}, modes(plan))

	activities := plan.Options[0].PlacesAlongRoute.Activities
	require.Len(t, activities, 1)
	assert.Equal(t, "Lulu Mall", activities[0].Name)
}

func TestPlanTrip_NoRouteOnlyAuto(t *testing.T) {
	svc, _ := newSeededService(t)

	plan, err := svc.PlanTrip(context.Background(), "Aluva", "Angamaly")
	require.NoError(t, err)
	require.Len(t, plan.Options, 1)

	auto := plan.Options[0]
	assert.Equal(t, domain.ModeAuto, auto.Mode)
	assert.Equal(t, 24, auto.Summary.DurationMinutes)
	assert.Equal(t, 180, auto.Summary.FareEstimate)
	assert.Equal(t, domain.NewPlacesBundle(), auto.PlacesAlongRoute)
}

func TestPlanTrip_RequiresFromAndTo(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	for _, tc := range [][2]string{{"", "Kakkanad"}, {"Vyttila", ""}, {"  ", "Kakkanad"}} {
		_, err := svc.PlanTrip(ctx, tc[0], tc[1])
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%q -> %q", tc[0], tc[1])
	}
}

func TestPlanTrip_ZeroLengthRouteUsesDefaultDistance(t *testing.T) {
	st := store.NewMemoryStore()
	data := store.Dataset{
		Routes: []domain.Route{{ID: "r", From: "A", To: "B", Stops: []domain.Stop{{Name: "A"}, {Name: "B"}}}},
		Vehicles: []domain.Vehicle{
			{ID: "v", RouteID: "r", Name: "bare", Category: domain.OperatorPrivate},
		},
	}
	require.NoError(t, st.Seed(context.Background(), data))
	svc := New(st, DefaultTariffs(), testLogger())

	plan, err := svc.PlanTrip(context.Background(), "A", "B")
	require.NoError(t, err)
	require.Equal(t, []domain.TravelMode{domain.ModePrivateBus, domain.ModeAuto}, modes(plan))
	assert.Equal(t, 30, plan.Options[0].Summary.FareEstimate)
	assert.Equal(t, 45, plan.Options[0].Summary.DurationMinutes)
	assert.Equal(t, 180, plan.Options[1].Summary.FareEstimate)
}

func TestGetPrivateBusOptions_FullRoute(t *testing.T) {
	svc, st := newSeededService(t)
	d := route1Length(t, st)

	opts, err := svc.GetPrivateBusOptions(context.Background(), "route1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "route1", opts.RouteID)
	require.Len(t, opts.Buses, 2)

	assert.Equal(t, "Mahanadi Travels (Pvt)", opts.Buses[0].Name)
	assert.Equal(t, round(10+2.5*d), opts.Buses[0].Fare)
	assert.Equal(t, "Shalom Bus Services", opts.Buses[1].Name)
	assert.Equal(t, round(8+2.2*d), opts.Buses[1].Fare)
	for _, b := range opts.Buses {
		assert.Equal(t, domain.OperatorPrivate, b.Category)
		assert.NotNil(t, b.FrequencyMinutes)
	}
}

func TestGetPrivateBusOptions_ZeroSpanUsesSegmentDefault(t *testing.T) {
	svc, _ := newSeededService(t)

	opts, err := svc.GetPrivateBusOptions(context.Background(), "route1", "Marine Drive", "marine drive")
	require.NoError(t, err)
	require.Len(t, opts.Buses, 2)
	assert.Equal(t, 23, opts.Buses[0].Fare)
	assert.Equal(t, 19, opts.Buses[1].Fare)
}

func TestGetPrivateBusOptions_PartialSpan(t *testing.T) {
	svc, st := newSeededService(t)
	r, err := st.GetRouteByID(context.Background(), "route1")
	require.NoError(t, err)
	d := geo.DistanceAlongRoute(r.Stops, 1, 2)

	opts, err := svc.GetPrivateBusOptions(context.Background(), "route1", "Marine Drive", "Unknown Stop")
	require.NoError(t, err)
	assert.Equal(t, round(10+2.5*d), opts.Buses[0].Fare, "unknown end stop widens to the last stop")
}

func TestGetPrivateBusOptions_Errors(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	_, err := svc.GetPrivateBusOptions(ctx, "", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetPrivateBusOptions(ctx, "route9", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPrivateBusOptions_NoPrivateBuses(t *testing.T) {
	svc, _ := newSeededService(t)

	opts, err := svc.GetPrivateBusOptions(context.Background(), "route2", "", "")
	require.NoError(t, err)
	assert.NotNil(t, opts.Buses)
	assert.Empty(t, opts.Buses)
}

func TestGetPlacesAlongRoute(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	places, err := svc.GetPlacesAlongRoute(ctx, "route2", domain.PlaceActivity)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Lulu Mall", places[0].Name)

	places, err = svc.GetPlacesAlongRoute(ctx, "route1", "nightlife")
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)

	_, err = svc.GetPlacesAlongRoute(ctx, "route1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetPlacesAlongRoute(ctx, "", domain.PlaceFood)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetPlacesAlongRoute(ctx, "route9", domain.PlaceFood)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetRouteDetails(t *testing.T) {
	svc, _ := newSeededService(t)

	r, err := svc.GetRouteDetails(context.Background(), "route2")
	require.NoError(t, err)
	assert.Equal(t, "Vyttila – Kakkanad", r.Name)
	assert.Len(t, r.Stops, 3)
}

func TestResolveStopIndex(t *testing.T) {
	_, st := newSeededService(t)
	r, err := st.GetRouteByID(context.Background(), "route1")
	require.NoError(t, err)

	assert.Equal(t, 1, ResolveStopIndex(r, "MARINE DRIVE"))
	assert.Equal(t, StopNotFound, ResolveStopIndex(r, "Marine"))
	assert.Equal(t, StopNotFound, ResolveStopIndex(nil, "Marine Drive"))

	start, end := StopSpan(r, "", "")
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}

// failingCatalog fails the method named by failOn and otherwise delegates.
type failingCatalog struct {
	Catalog
	failOn string
}

var errBoom = errors.New("boom")

func (f failingCatalog) GetRouteByFromTo(ctx context.Context, from, to string) (*domain.Route, error) {
	if f.failOn == "route" {
		return nil, errBoom
	}
	return f.Catalog.GetRouteByFromTo(ctx, from, to)
}

func (f failingCatalog) GetVehiclesByRoute(ctx context.Context, routeID string) ([]domain.Vehicle, error) {
	if f.failOn == "vehicles" {
		return nil, errBoom
	}
	return f.Catalog.GetVehiclesByRoute(ctx, routeID)
}

func (f failingCatalog) GetPlacesByCategory(ctx context.Context, category domain.PlaceCategory) ([]domain.Place, error) {
	if f.failOn == "places" && category == domain.PlaceActivity {
		return nil, errBoom
	}
	return f.Catalog.GetPlacesByCategory(ctx, category)
}

func TestPlanTrip_UpstreamFailuresPropagate(t *testing.T) {
	_, st := newSeededService(t)

	for _, failOn := range []string{"route", "vehicles", "places"} {
		svc := New(failingCatalog{Catalog: st, failOn: failOn}, DefaultTariffs(), testLogger())

		plan, err := svc.PlanTrip(context.Background(), "Fort Kochi", "Vyttila Hub")
		assert.Nil(t, plan, failOn)
		require.Error(t, err, failOn)

		var upErr *domain.UpstreamError
		assert.ErrorAs(t, err, &upErr, failOn)
		assert.ErrorIs(t, err, errBoom, failOn)
	}
}
