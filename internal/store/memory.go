package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"travelassist/internal/domain"
)

// MemoryStore keeps the catalog in insertion-ordered slices guarded by a
// RWMutex. Reads hand out copies.
type MemoryStore struct {
	mu          sync.RWMutex
	routes      []domain.Route
	routesByID  map[string]int
	vehicles    []domain.Vehicle
	places      []domain.Place
	taxiDrivers []domain.TaxiDriver
	dayPlans    []domain.DayPlan

	lastUpdate time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routesByID: make(map[string]int),
	}
}

// Seed replaces the catalog. Saved day plans survive.
func (s *MemoryStore) Seed(_ context.Context, data Dataset) error {
	routes := make([]domain.Route, len(data.Routes))
	byID := make(map[string]int, len(data.Routes))
	for i := range data.Routes {
		routes[i] = *data.Routes[i].Clone()
		byID[routes[i].ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes = routes
	s.routesByID = byID
	s.vehicles = slices.Clone(data.Vehicles)
	s.places = slices.Clone(data.Places)
	s.taxiDrivers = lo.Map(data.TaxiDrivers, func(d domain.TaxiDriver, _ int) domain.TaxiDriver {
		d.Languages = slices.Clone(d.Languages)
		return d
	})
	s.lastUpdate = time.Now()
	return nil
}

// GetRouteByFromTo returns the first route, in insertion order, whose
// labels match from and to in the stored direction.
func (s *MemoryStore) GetRouteByFromTo(_ context.Context, from, to string) (*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.routes {
		if s.routes[i].MatchesLabels(from, to) {
			return s.routes[i].Clone(), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetRouteByID(_ context.Context, id string) (*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.routesByID[id]
	if !ok {
		return nil, nil
	}
	return s.routes[idx].Clone(), nil
}

func (s *MemoryStore) ListRoutes(_ context.Context) ([]domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Route, 0, len(s.routes))
	for i := range s.routes {
		result = append(result, *s.routes[i].Clone())
	}
	return result, nil
}

func (s *MemoryStore) GetVehiclesByRoute(_ context.Context, routeID string) ([]domain.Vehicle, error) {
	return s.filterVehicles(func(v domain.Vehicle) bool {
		return v.RouteID == routeID
	}), nil
}

func (s *MemoryStore) GetVehiclesByRouteAndCategory(_ context.Context, routeID string, category domain.OperatorCategory) ([]domain.Vehicle, error) {
	return s.filterVehicles(func(v domain.Vehicle) bool {
		return v.RouteID == routeID && v.Category == category
	}), nil
}

func (s *MemoryStore) filterVehicles(keep func(domain.Vehicle) bool) []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Vehicle, 0)
	for _, v := range s.vehicles {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

func (s *MemoryStore) GetPlacesByCategory(_ context.Context, category domain.PlaceCategory) ([]domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Place, 0)
	for _, p := range s.places {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListPlaces(_ context.Context) ([]domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Place, len(s.places))
	copy(result, s.places)
	return result, nil
}

func (s *MemoryStore) FindPlaces(_ context.Context, categories []domain.PlaceCategory, limit int) ([]domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Place, 0)
	for _, p := range s.places {
		if limit > 0 && len(result) == limit {
			break
		}
		if slices.Contains(categories, p.Category) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListTaxiDrivers(_ context.Context) ([]domain.TaxiDriver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TaxiDriver, len(s.taxiDrivers))
	for i, d := range s.taxiDrivers {
		d.Languages = slices.Clone(d.Languages)
		result[i] = d
	}
	return result, nil
}

func (s *MemoryStore) SaveDayPlan(_ context.Context, plan domain.DayPlan) error {
	plan.Interests = slices.Clone(plan.Interests)
	plan.Items = slices.Clone(plan.Items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayPlans = append(s.dayPlans, plan)
	return nil
}

// ListDayPlansByUser returns the user's plans, newest first.
func (s *MemoryStore) ListDayPlansByUser(_ context.Context, userID string) ([]domain.DayPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DayPlan, 0)
	for _, p := range s.dayPlans {
		if p.UserID != userID {
			continue
		}
		p.Interests = slices.Clone(p.Interests)
		p.Items = slices.Clone(p.Items)
		result = append(result, p)
	}
	slices.SortStableFunc(result, func(a, b domain.DayPlan) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Backend:     "memory",
		Routes:      len(s.routes),
		Vehicles:    len(s.vehicles),
		Places:      len(s.places),
		TaxiDrivers: len(s.taxiDrivers),
		DayPlans:    len(s.dayPlans),
		LastUpdate:  s.lastUpdate,
		IsLoaded:    !s.lastUpdate.IsZero(),
	}, nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }
