package domain

// TravelMode keys a TripOption.
type TravelMode string

const (
	ModePrivateBus TravelMode = "private-bus"
	ModeAuto       TravelMode = "auto"
	ModeMetro      TravelMode = "metro"
)

// TripSummary carries the estimates for one mode. Duration and fare are
// always finite and non-negative.
type TripSummary struct {
	DurationMinutes  int  `json:"durationMinutes"`
	FareEstimate     int  `json:"fareEstimate"`
	FrequencyMinutes *int `json:"frequencyMinutes,omitempty"`
}

// PlacesBundle groups nearby places by presentation category.
type PlacesBundle struct {
	Food        []Place `json:"food"`
	Activities  []Place `json:"activities"`
	Attractions []Place `json:"attractions"`
}

// NewPlacesBundle returns a bundle with empty, non-nil lists.
func NewPlacesBundle() PlacesBundle {
	return PlacesBundle{
		Food:        []Place{},
		Activities:  []Place{},
		Attractions: []Place{},
	}
}

// TripOption is one synthesized travel proposal.
type TripOption struct {
	Mode             TravelMode   `json:"mode"`
	RouteID          string       `json:"routeId,omitempty"`
	Summary          TripSummary  `json:"summary"`
	PlacesAlongRoute PlacesBundle `json:"placesAlongRoute"`
}

// TripPlan is the answer to a from/to query. Options keep the fixed
// presentation order private-bus, auto, metro.
type TripPlan struct {
	From    string       `json:"from"`
	To      string       `json:"to"`
	Options []TripOption `json:"options"`
}

// FareEntry is one private bus with its fare for a stop span.
type FareEntry struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Category         OperatorCategory `json:"operatorType"`
	FrequencyMinutes *int             `json:"frequencyMinutes,omitempty"`
	Fare             int              `json:"fare"`
}

// PrivateBusOptions lists the private buses of a route, in catalog order.
type PrivateBusOptions struct {
	RouteID  string      `json:"routeId"`
	FromStop string      `json:"fromStop,omitempty"`
	ToStop   string      `json:"toStop,omitempty"`
	Buses    []FareEntry `json:"buses"`
}
