package planner

import (
	"context"
	"fmt"

	"travelassist/internal/domain"
	"travelassist/internal/geo"
)

// GetPrivateBusOptions prices every private bus of a known route for the
// span between fromStop and toStop, in catalog order. Each bus is priced
// with its own tariff. Stop names resolve as in StopSpan; a zero span
// distance falls back to the configured segment distance.
func (s *Service) GetPrivateBusOptions(ctx context.Context, routeID, fromStop, toStop string) (*domain.PrivateBusOptions, error) {
	route, err := s.routeByID(ctx, "GetPrivateBusOptions", routeID)
	if err != nil {
		return nil, err
	}

	buses, err := s.catalog.GetVehiclesByRouteAndCategory(ctx, route.ID, domain.OperatorPrivate)
	if err != nil {
		return nil, fmt.Errorf("planner: GetPrivateBusOptions: %w", domain.Upstream("get vehicles by route and category", err))
	}

	result := &domain.PrivateBusOptions{
		RouteID:  route.ID,
		FromStop: fromStop,
		ToStop:   toStop,
		Buses:    make([]domain.FareEntry, 0, len(buses)),
	}
	if len(buses) == 0 {
		return result, nil
	}

	start, end := StopSpan(route, fromStop, toStop)
	distanceKm := geo.DistanceAlongRoute(route.Stops, start, end)
	if distanceKm <= 0 {
		distanceKm = s.tariffs.SegmentDistanceKm
	}

	for _, bus := range buses {
		result.Buses = append(result.Buses, domain.FareEntry{
			ID:               bus.ID,
			Name:             bus.Name,
			Category:         bus.Category,
			FrequencyMinutes: bus.FrequencyMinutes,
			Fare:             VehicleFare(bus, s.tariffs.PrivateBus, distanceKm),
		})
	}

	s.logger.Debug("private bus options",
		"route_id", route.ID,
		"start_index", start,
		"end_index", end,
		"distance_km", distanceKm,
		"buses", len(result.Buses),
	)
	return result, nil
}
