package planner

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"travelassist/internal/domain"
	"travelassist/internal/geo"
)

// placesAlongRoute fetches the three bundle categories concurrently and
// keeps the places near the route. Without a route every list is empty.
// Each caller gets its own bundle.
func (s *Service) placesAlongRoute(ctx context.Context, route *domain.Route) (domain.PlacesBundle, error) {
	bundle := domain.NewPlacesBundle()
	if route == nil {
		return bundle, nil
	}

	targets := []struct {
		category domain.PlaceCategory
		dst      *[]domain.Place
	}{
		{domain.PlaceFood, &bundle.Food},
		{domain.PlaceActivity, &bundle.Activities},
		{domain.PlaceAttraction, &bundle.Attractions},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			places, err := s.nearbyPlaces(gctx, route, t.category)
			if err != nil {
				return err
			}
			*t.dst = places
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.PlacesBundle{}, err
	}
	return bundle, nil
}

func (s *Service) nearbyPlaces(ctx context.Context, route *domain.Route, category domain.PlaceCategory) ([]domain.Place, error) {
	places, err := s.catalog.GetPlacesByCategory(ctx, category)
	if err != nil {
		return nil, domain.Upstream("get places by category", err)
	}
	near := lo.Filter(places, func(p domain.Place, _ int) bool {
		return geo.IsNear(p, route.Stops, s.tariffs.ProximityKm)
	})
	if near == nil {
		near = []domain.Place{}
	}
	return near, nil
}
