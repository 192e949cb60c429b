package planner

import (
	"errors"
	"fmt"
	"math"

	"travelassist/internal/geo"
)

// ScheduledTariff holds the fallbacks for a mode backed by Vehicle records.
// A fallback applies only when the vehicle field is absent.
type ScheduledTariff struct {
	DefaultDurationMinutes  int
	DefaultFrequencyMinutes int
	DefaultBaseFare         float64
	DefaultFarePerKm        float64
}

// AutoTariff prices door-to-door auto/taxi trips, which have no vehicle
// records behind them.
type AutoTariff struct {
	SpeedKmh           float64
	MinDurationMinutes int
	BaseFare           float64
	FarePerKm          float64
}

// Tariffs is the pricing and fallback policy. These are policy choices,
// not measured data, and every value can be overridden from config.
type Tariffs struct {
	PrivateBus ScheduledTariff
	Metro      ScheduledTariff
	Auto       AutoTariff

	// RouteDistanceKm replaces the trip distance when no route resolves or
	// the route has no measurable length.
	RouteDistanceKm float64
	// SegmentDistanceKm replaces a zero stop-span distance in private bus
	// listings.
	SegmentDistanceKm float64
	// ProximityKm is the radius for places along a route.
	ProximityKm float64
}

func DefaultTariffs() Tariffs {
	return Tariffs{
		PrivateBus: ScheduledTariff{
			DefaultDurationMinutes:  45,
			DefaultFrequencyMinutes: 10,
			DefaultBaseFare:         10,
			DefaultFarePerKm:        2,
		},
		Metro: ScheduledTariff{
			DefaultDurationMinutes:  30,
			DefaultFrequencyMinutes: 10,
			DefaultBaseFare:         15,
			DefaultFarePerKm:        3,
		},
		Auto: AutoTariff{
			SpeedKmh:           25,
			MinDurationMinutes: 15,
			BaseFare:           30,
			FarePerKm:          15,
		},
		RouteDistanceKm:   10,
		SegmentDistanceKm: 5,
		ProximityKm:       geo.DefaultProximityKm,
	}
}

// Validate rejects values that would make estimates meaningless.
func (t Tariffs) Validate() error {
	var errs []error
	check := func(name string, v float64, allowZero bool) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || (!allowZero && v == 0) {
			errs = append(errs, fmt.Errorf("tariff %s: invalid value %v", name, v))
		}
	}

	scheduled := []struct {
		name string
		s    ScheduledTariff
	}{
		{"private_bus", t.PrivateBus},
		{"metro", t.Metro},
	}
	for _, m := range scheduled {
		name, s := m.name, m.s
		check(name+".default_duration", float64(s.DefaultDurationMinutes), true)
		check(name+".default_frequency", float64(s.DefaultFrequencyMinutes), true)
		check(name+".default_base_fare", s.DefaultBaseFare, true)
		check(name+".default_fare_per_km", s.DefaultFarePerKm, true)
	}
	check("auto.speed_kmh", t.Auto.SpeedKmh, false)
	check("auto.min_duration", float64(t.Auto.MinDurationMinutes), true)
	check("auto.base_fare", t.Auto.BaseFare, true)
	check("auto.fare_per_km", t.Auto.FarePerKm, true)
	check("route_distance_km", t.RouteDistanceKm, false)
	check("segment_distance_km", t.SegmentDistanceKm, false)
	check("proximity_km", t.ProximityKm, false)

	return errors.Join(errs...)
}
