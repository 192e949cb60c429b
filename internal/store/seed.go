package store

import (
	"github.com/samber/lo"

	"travelassist/internal/domain"
)

// SeedData is the Kochi sample catalog used by `travelassist seed` and by
// the in-memory backend when no database is configured.
func SeedData() Dataset {
	return Dataset{
		Routes: []domain.Route{
			{
				ID:   "route1",
				Name: "Fort Kochi – Vyttila Hub",
				From: "Fort Kochi",
				To:   "Vyttila Hub",
				Stops: []domain.Stop{
					stop("Fort Kochi", 9.966, 76.242),
					stop("Marine Drive", 9.9816, 76.2756),
					stop("Vyttila Hub", 9.9707, 76.3181),
				},
			},
			{
				ID:   "route2",
				Name: "Vyttila – Kakkanad",
				From: "Vyttila",
				To:   "Kakkanad",
				Stops: []domain.Stop{
					stop("Vyttila", 9.9707, 76.3181),
					stop("Palarivattom", 10.005, 76.303),
					stop("Kakkanad", 10.0159, 76.3621),
				},
			},
		},
		Vehicles: []domain.Vehicle{
			vehicle("bus1", "route1", "Mahanadi Travels (Pvt)", domain.OperatorPrivate, 10, 45, 10, 2.5),
			vehicle("bus2", "route1", "Shalom Bus Services", domain.OperatorPrivate, 15, 50, 8, 2.2),
			vehicle("bus3", "route1", "Kochi Metro Feeder", domain.OperatorMetro, 12, 35, 15, 3),
			vehicle("bus4", "route2", "KSRTC City Rider", domain.OperatorKSRTC, 18, 30, 12, 2.4),
		},
		Places: []domain.Place{
			place("place1", "Fort Kochi Beach Cafe", domain.PlaceFood, "restaurant", 9.966, 76.242, "Fort Kochi", 4.5, 2),
			place("place2", "Marine Drive Restaurant", domain.PlaceFood, "restaurant", 9.9816, 76.2756, "Marine Drive", 4.6, 2),
			place("place3", "Chinese Fishing Nets", domain.PlaceAttraction, "landmark", 9.9668, 76.2424, "Fort Kochi", 4.8, 1),
			place("place4", "Lulu Mall", domain.PlaceActivity, "shopping", 10.027, 76.308, "Edappally", 4.4, 3),
		},
		TaxiDrivers: []domain.TaxiDriver{
			{
				ID:        "taxi1",
				Name:      "Rajesh Kumar",
				Phone:     "+91 9876543210",
				Vehicle:   "Maruti Swift",
				Area:      "Fort Kochi",
				Rating:    lo.ToPtr(4.8),
				Languages: []string{"English", "Malayalam"},
			},
			{
				ID:        "taxi2",
				Name:      "Suresh Menon",
				Phone:     "+91 9876543211",
				Vehicle:   "Hyundai i20",
				Area:      "Vyttila",
				Rating:    lo.ToPtr(4.6),
				Languages: []string{"English", "Malayalam", "Hindi"},
			},
		},
	}
}

func stop(name string, lat, lng float64) domain.Stop {
	return domain.Stop{Name: name, Lat: lo.ToPtr(lat), Lng: lo.ToPtr(lng)}
}

func vehicle(id, routeID, name string, category domain.OperatorCategory, frequency, duration int, baseFare, perKm float64) domain.Vehicle {
	return domain.Vehicle{
		ID:                    id,
		RouteID:               routeID,
		Name:                  name,
		Category:              category,
		FrequencyMinutes:      lo.ToPtr(frequency),
		ApproxDurationMinutes: lo.ToPtr(duration),
		BaseFare:              lo.ToPtr(baseFare),
		FarePerKm:             lo.ToPtr(perKm),
	}
}

func place(id, name string, category domain.PlaceCategory, subtype string, lat, lng float64, area string, rating float64, priceLevel int) domain.Place {
	return domain.Place{
		ID:         id,
		Name:       name,
		Category:   category,
		Subtype:    subtype,
		Lat:        lo.ToPtr(lat),
		Lng:        lo.ToPtr(lng),
		Area:       area,
		Rating:     lo.ToPtr(rating),
		PriceLevel: lo.ToPtr(priceLevel),
		IsOpenNow:  lo.ToPtr(true),
	}
}
