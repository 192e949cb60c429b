package planner

import (
	"context"

	"travelassist/internal/domain"
)

// StopNotFound is returned by ResolveStopIndex for an unknown stop name.
const StopNotFound = -1

// ResolveRoute finds the stored route for a from/to query. The stored
// direction is tried first; on a miss the query is read as the reverse
// direction of a stored route. No match in either orientation returns
// (nil, nil).
func (s *Service) ResolveRoute(ctx context.Context, from, to string) (*domain.Route, error) {
	route, err := s.catalog.GetRouteByFromTo(ctx, from, to)
	if err != nil {
		return nil, domain.Upstream("get route by from/to", err)
	}
	if route != nil {
		return route, nil
	}

	route, err = s.catalog.GetRouteByFromTo(ctx, to, from)
	if err != nil {
		return nil, domain.Upstream("get route by from/to (reversed)", err)
	}
	if route == nil {
		s.logger.Debug("no route for query", "from", from, "to", to)
	}
	return route, nil
}

// ResolveStopIndex returns the index of the stop named name within route,
// ignoring case, or StopNotFound.
func ResolveStopIndex(route *domain.Route, name string) int {
	if route == nil {
		return StopNotFound
	}
	if idx, ok := route.StopIndex(name); ok {
		return idx
	}
	return StopNotFound
}

// StopSpan resolves a stop-name span to indices. An unresolved start
// becomes the first stop and an unresolved end the last, so a misspelled
// or omitted name silently widens the span to the whole route.
func StopSpan(route *domain.Route, fromStop, toStop string) (start, end int) {
	start = ResolveStopIndex(route, fromStop)
	if start == StopNotFound {
		start = 0
	}
	end = ResolveStopIndex(route, toStop)
	if end == StopNotFound {
		end = route.LastStopIndex()
	}
	return start, end
}
