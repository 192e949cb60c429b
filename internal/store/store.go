// Package store holds the catalog of routes, vehicles, places and taxi
// drivers, plus saved day plans. Two backends share the Store contract:
// MemoryStore for local runs and tests, MongoStore for deployments.
package store

import (
	"context"
	"time"

	"travelassist/internal/domain"
)

// Store is the full data-access contract. Single-entity lookups return
// (nil, nil) when nothing matches; list methods return a non-nil slice.
type Store interface {
	GetRouteByFromTo(ctx context.Context, from, to string) (*domain.Route, error)
	GetRouteByID(ctx context.Context, id string) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)

	GetVehiclesByRoute(ctx context.Context, routeID string) ([]domain.Vehicle, error)
	GetVehiclesByRouteAndCategory(ctx context.Context, routeID string, category domain.OperatorCategory) ([]domain.Vehicle, error)

	GetPlacesByCategory(ctx context.Context, category domain.PlaceCategory) ([]domain.Place, error)
	ListPlaces(ctx context.Context) ([]domain.Place, error)
	// FindPlaces returns up to limit places whose category is one of
	// categories, in catalog order. limit <= 0 means no limit.
	FindPlaces(ctx context.Context, categories []domain.PlaceCategory, limit int) ([]domain.Place, error)

	ListTaxiDrivers(ctx context.Context) ([]domain.TaxiDriver, error)

	SaveDayPlan(ctx context.Context, plan domain.DayPlan) error
	ListDayPlansByUser(ctx context.Context, userID string) ([]domain.DayPlan, error)

	Seed(ctx context.Context, data Dataset) error
	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dataset is a full catalog snapshot. Vehicles reference routes by ID.
type Dataset struct {
	Routes      []domain.Route
	Vehicles    []domain.Vehicle
	Places      []domain.Place
	TaxiDrivers []domain.TaxiDriver
}

type Stats struct {
	Backend     string    `json:"backend"`
	Routes      int       `json:"routes_count"`
	Vehicles    int       `json:"vehicles_count"`
	Places      int       `json:"places_count"`
	TaxiDrivers int       `json:"taxi_drivers_count"`
	DayPlans    int       `json:"day_plans_count"`
	LastUpdate  time.Time `json:"last_update"`
	IsLoaded    bool      `json:"is_loaded"`
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
