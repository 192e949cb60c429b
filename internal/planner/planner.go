// Package planner synthesizes multi-mode trip options for a free-text
// origin and destination.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"travelassist/internal/domain"
	"travelassist/internal/geo"
)

// Catalog is the read-only data access the planner needs. Single-entity
// lookups return (nil, nil) when the entity does not exist.
type Catalog interface {
	GetRouteByFromTo(ctx context.Context, from, to string) (*domain.Route, error)
	GetRouteByID(ctx context.Context, id string) (*domain.Route, error)
	GetVehiclesByRoute(ctx context.Context, routeID string) ([]domain.Vehicle, error)
	GetVehiclesByRouteAndCategory(ctx context.Context, routeID string, category domain.OperatorCategory) ([]domain.Vehicle, error)
	GetPlacesByCategory(ctx context.Context, category domain.PlaceCategory) ([]domain.Place, error)
}

type Service struct {
	catalog Catalog
	tariffs Tariffs
	logger  *slog.Logger
}

func New(catalog Catalog, tariffs Tariffs, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		tariffs: tariffs,
		logger:  logger.With("component", "planner"),
	}
}

// Tariffs returns the policy the service was built with.
func (s *Service) Tariffs() Tariffs {
	return s.tariffs
}

// PlanTrip returns the trip options for a from/to query in the fixed order
// private-bus, auto, metro. The order is a presentation priority and is
// never re-sorted by fare or duration.
//
// Empty from or to fails with domain.ErrInvalidInput before any lookup.
// A missing route or missing vehicles only reduces the options; auto is
// always present. Data-access failures fail the whole request.
func (s *Service) PlanTrip(ctx context.Context, from, to string) (*domain.TripPlan, error) {
	start := time.Now()
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("planner: PlanTrip: from and to are required: %w", domain.ErrInvalidInput)
	}

	route, err := s.ResolveRoute(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("planner: PlanTrip: %w", err)
	}

	var vehicles []domain.Vehicle
	if route != nil {
		vehicles, err = s.catalog.GetVehiclesByRoute(ctx, route.ID)
		if err != nil {
			return nil, fmt.Errorf("planner: PlanTrip: %w", domain.Upstream("get vehicles by route", err))
		}
	}
	byCategory := lo.GroupBy(vehicles, func(v domain.Vehicle) domain.OperatorCategory { return v.Category })
	private := byCategory[domain.OperatorPrivate]
	metro := byCategory[domain.OperatorMetro]

	distanceKm := s.routeDistanceKm(route)

	options := make([]domain.TripOption, 0, 3)

	if route != nil && len(private) > 0 {
		opt, err := s.scheduledOption(ctx, domain.ModePrivateBus, route, private, s.tariffs.PrivateBus, distanceKm)
		if err != nil {
			return nil, fmt.Errorf("planner: PlanTrip: %w", err)
		}
		options = append(options, opt)
	}

	autoPlaces, err := s.placesAlongRoute(ctx, route)
	if err != nil {
		return nil, fmt.Errorf("planner: PlanTrip: %w", err)
	}
	options = append(options, domain.TripOption{
		Mode:             domain.ModeAuto,
		Summary:          EstimateAuto(s.tariffs.Auto, distanceKm),
		PlacesAlongRoute: autoPlaces,
	})

	if route != nil && len(metro) > 0 {
		opt, err := s.scheduledOption(ctx, domain.ModeMetro, route, metro, s.tariffs.Metro, distanceKm)
		if err != nil {
			return nil, fmt.Errorf("planner: PlanTrip: %w", err)
		}
		options = append(options, opt)
	}

	routeID := ""
	if route != nil {
		routeID = route.ID
	}
	s.logger.Debug("trip planned",
		"from", from,
		"to", to,
		"route_id", routeID,
		"distance_km", distanceKm,
		"private_vehicles", len(private),
		"metro_vehicles", len(metro),
		"options", len(options),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &domain.TripPlan{From: from, To: to, Options: options}, nil
}

// GetRouteDetails returns the stored route or domain.ErrNotFound.
func (s *Service) GetRouteDetails(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.routeByID(ctx, "GetRouteDetails", routeID)
}

// GetPlacesAlongRoute returns the places of category within the proximity
// threshold of any stop of the route.
func (s *Service) GetPlacesAlongRoute(ctx context.Context, routeID string, category domain.PlaceCategory) ([]domain.Place, error) {
	if strings.TrimSpace(string(category)) == "" {
		return nil, fmt.Errorf("planner: GetPlacesAlongRoute: category is required: %w", domain.ErrInvalidInput)
	}
	route, err := s.routeByID(ctx, "GetPlacesAlongRoute", routeID)
	if err != nil {
		return nil, err
	}
	places, err := s.nearbyPlaces(ctx, route, category)
	if err != nil {
		return nil, fmt.Errorf("planner: GetPlacesAlongRoute: %w", err)
	}
	return places, nil
}

func (s *Service) scheduledOption(ctx context.Context, mode domain.TravelMode, route *domain.Route, vehicles []domain.Vehicle, t ScheduledTariff, distanceKm float64) (domain.TripOption, error) {
	places, err := s.placesAlongRoute(ctx, route)
	if err != nil {
		return domain.TripOption{}, err
	}
	return domain.TripOption{
		Mode:             mode,
		RouteID:          route.ID,
		Summary:          EstimateScheduled(vehicles, t, distanceKm),
		PlacesAlongRoute: places,
	}, nil
}

// routeDistanceKm is the full length of the route, or the configured
// default when there is no route or its length is zero.
func (s *Service) routeDistanceKm(route *domain.Route) float64 {
	if route == nil {
		return s.tariffs.RouteDistanceKm
	}
	if d := geo.RouteLengthKm(route.Stops); d > 0 {
		return d
	}
	return s.tariffs.RouteDistanceKm
}

func (s *Service) routeByID(ctx context.Context, op, routeID string) (*domain.Route, error) {
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return nil, fmt.Errorf("planner: %s: routeId is required: %w", op, domain.ErrInvalidInput)
	}
	route, err := s.catalog.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("planner: %s: %w", op, domain.Upstream("get route by id", err))
	}
	if route == nil {
		return nil, fmt.Errorf("planner: %s: route %q: %w", op, routeID, domain.ErrNotFound)
	}
	return route, nil
}
