package domain

import (
	"strings"

	"travelassist/internal/geo"
)

// Stop is a named point on a route. Stored stops may lack coordinates.
type Stop struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Position implements geo.Positioned.
func (s Stop) Position() (geo.Point, bool) {
	return position(s.Lat, s.Lng)
}

// Route is a named path between two places with an ordered stop sequence.
// Stop order is significant.
type Route struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Stops    []Stop      `json:"stops"`
	Polyline [][]float64 `json:"polyline,omitempty"`
}

// MatchesLabels reports whether from and to match the route's From and To
// labels in the stored direction.
//
// Stored labels are short canonical names ("Fort Kochi") while queries may
// carry extra words ("Fort Kochi Jetty"), so a label matches when either
// string contains the other, case-insensitively. Empty labels never match.
func (r *Route) MatchesLabels(from, to string) bool {
	return LabelMatches(r.From, from) && LabelMatches(r.To, to)
}

// LabelMatches is the containment rule behind MatchesLabels.
func LabelMatches(label, query string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	q := strings.ToLower(strings.TrimSpace(query))
	if l == "" || q == "" {
		return false
	}
	return strings.Contains(l, q) || strings.Contains(q, l)
}

// StopIndex returns the index of the stop whose name equals name,
// ignoring case. ok is false when the route has no such stop.
func (r *Route) StopIndex(name string) (idx int, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for i, s := range r.Stops {
		if strings.EqualFold(s.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// LastStopIndex is len(Stops)-1, or 0 for a route without stops.
func (r *Route) LastStopIndex() int {
	if len(r.Stops) == 0 {
		return 0
	}
	return len(r.Stops) - 1
}

// Clone returns a deep copy of the route.
func (r *Route) Clone() *Route {
	c := *r
	c.Stops = make([]Stop, len(r.Stops))
	for i, s := range r.Stops {
		c.Stops[i] = Stop{Name: s.Name, Lat: cloneFloat(s.Lat), Lng: cloneFloat(s.Lng)}
	}
	if r.Polyline != nil {
		c.Polyline = make([][]float64, len(r.Polyline))
		for i, p := range r.Polyline {
			c.Polyline[i] = append([]float64(nil), p...)
		}
	}
	return &c
}

func position(lat, lng *float64) (geo.Point, bool) {
	if lat == nil || lng == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *lat, Lng: *lng}, true
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
