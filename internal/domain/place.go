package domain

import "travelassist/internal/geo"

// PlaceCategory is the kind of a point of interest.
type PlaceCategory string

const (
	PlaceFood       PlaceCategory = "food"
	PlaceActivity   PlaceCategory = "activity"
	PlaceAttraction PlaceCategory = "attraction"
	PlaceEmergency  PlaceCategory = "emergency"
)

func (c PlaceCategory) Valid() bool {
	switch c {
	case PlaceFood, PlaceActivity, PlaceAttraction, PlaceEmergency:
		return true
	default:
		return false
	}
}

// Place is a point of interest. It belongs to no route; routes pick up
// places by proximity at query time.
type Place struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Category   PlaceCategory `json:"type"`
	Subtype    string        `json:"subtype,omitempty"`
	Lat        *float64      `json:"lat,omitempty"`
	Lng        *float64      `json:"lng,omitempty"`
	Area       string        `json:"area,omitempty"`
	Rating     *float64      `json:"rating,omitempty"`
	PriceLevel *int          `json:"priceLevel,omitempty"`
	IsOpenNow  *bool         `json:"isOpenNow,omitempty"`
}

// Position implements geo.Positioned.
func (p Place) Position() (geo.Point, bool) {
	return position(p.Lat, p.Lng)
}

// TaxiDriver is a directory entry for the taxi listing.
type TaxiDriver struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Vehicle   string   `json:"vehicle"`
	Area      string   `json:"area"`
	Rating    *float64 `json:"rating,omitempty"`
	Languages []string `json:"languages"`
}
