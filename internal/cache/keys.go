package cache

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	KeyRoutes      = "routes"
	KeyTaxiDrivers = "taxis"

	// PatternTripPlans matches every cached trip plan.
	PatternTripPlans = "trip:*"
)

func KeyRoute(routeID string) string {
	return fmt.Sprintf("route:%s", routeID)
}

func KeyPlacesAlongRoute(routeID, category string) string {
	return fmt.Sprintf("places:along:%s:%s", routeID, normalize(category))
}

// KeyTripPlan keys a trip query. Labels match case-insensitively, so the
// key is built from the trimmed, lowercased, space-collapsed query.
func KeyTripPlan(from, to string) string {
	return fmt.Sprintf("trip:%s:%s", normalize(from), normalize(to))
}

func KeyPrivateBusOptions(routeID, fromStop, toStop string) string {
	return fmt.Sprintf("privatebus:%s:%s:%s", routeID, normalize(fromStop), normalize(toStop))
}

func normalize(s string) string {
	return url.QueryEscape(strings.Join(strings.Fields(strings.ToLower(s)), " "))
}
