package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// DefaultProximityKm is the radius used to decide whether a point lies
	// along a route.
	DefaultProximityKm = 5.0
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position makes a bare Point usable wherever a Positioned is expected.
func (p Point) Position() (Point, bool) {
	return p, true
}

// Positioned is anything that may carry coordinates. Stored records can
// lack them, in which case ok is false.
type Positioned interface {
	Position() (p Point, ok bool)
}

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// GreatCircleDistanceKm returns the distance between a and b in km.
// A missing operand or one without coordinates yields 0; incomplete
// records are measured as coincident rather than rejected.
func GreatCircleDistanceKm(a, b Positioned) float64 {
	if a == nil || b == nil {
		return 0
	}
	pa, ok := a.Position()
	if !ok {
		return 0
	}
	pb, ok := b.Position()
	if !ok {
		return 0
	}
	return HaversineKm(pa, pb)
}

// DistanceAlongRoute sums the leg distances between consecutive stops from
// the lower to the higher of startIndex and endIndex. Both indices are
// clamped into the stop range, so callers may pass them in either order.
func DistanceAlongRoute[P Positioned](stops []P, startIndex, endIndex int) float64 {
	if len(stops) < 2 {
		return 0
	}

	last := len(stops) - 1
	lo := clamp(min(startIndex, endIndex), 0, last)
	hi := clamp(max(startIndex, endIndex), 0, last)

	total := 0.0
	for i := lo; i < hi; i++ {
		total += GreatCircleDistanceKm(stops[i], stops[i+1])
	}
	return total
}

// RouteLengthKm is DistanceAlongRoute over the whole stop list.
func RouteLengthKm[P Positioned](stops []P) float64 {
	return DistanceAlongRoute(stops, 0, len(stops)-1)
}

// IsNear reports whether point is within thresholdKm of any stop. The
// boundary is inclusive.
//
// This is a corridor approximation: it measures against the stops only,
// not the path between them, so it over-includes points that sit close to
// a single stop even when the route itself bends away.
func IsNear[P Positioned](point Positioned, stops []P, thresholdKm float64) bool {
	for _, stop := range stops {
		if GreatCircleDistanceKm(stop, point) <= thresholdKm {
			return true
		}
	}
	return false
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
