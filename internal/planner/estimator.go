package planner

import (
	"math"

	"github.com/samber/lo"

	"travelassist/internal/domain"
)

// EstimateScheduled builds the summary for a vehicle-backed mode.
//
// Duration and frequency are the minimum over vehicles that record them.
// The fare comes from the first vehicle's tariff alone, so it represents a
// single operator rather than the fleet.
func EstimateScheduled(vehicles []domain.Vehicle, t ScheduledTariff, distanceKm float64) domain.TripSummary {
	duration, ok := minPresent(vehicles, func(v domain.Vehicle) *int { return v.ApproxDurationMinutes })
	if !ok {
		duration = t.DefaultDurationMinutes
	}
	frequency, ok := minPresent(vehicles, func(v domain.Vehicle) *int { return v.FrequencyMinutes })
	if !ok {
		frequency = t.DefaultFrequencyMinutes
	}

	fare := 0
	if len(vehicles) > 0 {
		fare = VehicleFare(vehicles[0], t, distanceKm)
	}

	frequency = max(frequency, 0)
	return domain.TripSummary{
		DurationMinutes:  max(duration, 0),
		FareEstimate:     fare,
		FrequencyMinutes: &frequency,
	}
}

// EstimateAuto builds the auto/taxi summary from distance alone.
func EstimateAuto(t AutoTariff, distanceKm float64) domain.TripSummary {
	duration := t.MinDurationMinutes
	if t.SpeedKmh > 0 {
		duration = max(t.MinDurationMinutes, roundNonNegative(distanceKm/t.SpeedKmh*60))
	}
	return domain.TripSummary{
		DurationMinutes: max(duration, 0),
		FareEstimate:    roundNonNegative(t.FarePerKm*distanceKm + t.BaseFare),
	}
}

// VehicleFare is round(baseFare + farePerKm × distanceKm) with the tariff
// defaults standing in for absent fields.
func VehicleFare(v domain.Vehicle, t ScheduledTariff, distanceKm float64) int {
	base := lo.FromPtrOr(v.BaseFare, t.DefaultBaseFare)
	perKm := lo.FromPtrOr(v.FarePerKm, t.DefaultFarePerKm)
	return roundNonNegative(base + perKm*distanceKm)
}

func minPresent(vehicles []domain.Vehicle, field func(domain.Vehicle) *int) (int, bool) {
	values := lo.FilterMap(vehicles, func(v domain.Vehicle, _ int) (int, bool) {
		p := field(v)
		if p == nil {
			return 0, false
		}
		return *p, true
	})
	if len(values) == 0 {
		return 0, false
	}
	return lo.Min(values), true
}

func roundNonNegative(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return 0
	}
	// float64(math.MaxInt) rounds up to 2^63, so >= catches overflow.
	if x >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(math.Round(x))
}
