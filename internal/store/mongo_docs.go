package store

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travelassist/internal/domain"
)

type stopDoc struct {
	Name string   `bson:"name"`
	Lat  *float64 `bson:"lat,omitempty"`
	Lng  *float64 `bson:"lng,omitempty"`
}

type routeDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	From     string             `bson:"from"`
	To       string             `bson:"to"`
	Stops    []stopDoc          `bson:"stops"`
	Polyline [][]float64        `bson:"polyline,omitempty"`
}

func routeFromDomain(r domain.Route) routeDoc {
	doc := routeDoc{
		ID:       primitive.NewObjectID(),
		Name:     r.Name,
		From:     r.From,
		To:       r.To,
		Stops:    make([]stopDoc, len(r.Stops)),
		Polyline: r.Polyline,
	}
	for i, st := range r.Stops {
		doc.Stops[i] = stopDoc{Name: st.Name, Lat: st.Lat, Lng: st.Lng}
	}
	return doc
}

func (d routeDoc) toDomain() domain.Route {
	r := domain.Route{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		From:     d.From,
		To:       d.To,
		Stops:    make([]domain.Stop, len(d.Stops)),
		Polyline: d.Polyline,
	}
	for i, st := range d.Stops {
		r.Stops[i] = domain.Stop{Name: st.Name, Lat: st.Lat, Lng: st.Lng}
	}
	return r
}

type vehicleDoc struct {
	ID                    primitive.ObjectID `bson:"_id"`
	RouteID               primitive.ObjectID `bson:"routeId"`
	Name                  string             `bson:"name"`
	OperatorType          string             `bson:"operatorType"`
	FrequencyMinutes      *int               `bson:"frequencyMinutes,omitempty"`
	ApproxDurationMinutes *int               `bson:"approxDurationMinutes,omitempty"`
	BaseFare              *float64           `bson:"baseFare,omitempty"`
	FarePerKm             *float64           `bson:"farePerKm,omitempty"`
}

func vehicleFromDomain(v domain.Vehicle, routeID primitive.ObjectID) vehicleDoc {
	return vehicleDoc{
		ID:                    primitive.NewObjectID(),
		RouteID:               routeID,
		Name:                  v.Name,
		OperatorType:          string(v.Category),
		FrequencyMinutes:      v.FrequencyMinutes,
		ApproxDurationMinutes: v.ApproxDurationMinutes,
		BaseFare:              v.BaseFare,
		FarePerKm:             v.FarePerKm,
	}
}

func (d vehicleDoc) toDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:                    d.ID.Hex(),
		RouteID:               d.RouteID.Hex(),
		Name:                  d.Name,
		Category:              domain.OperatorCategory(d.OperatorType),
		FrequencyMinutes:      d.FrequencyMinutes,
		ApproxDurationMinutes: d.ApproxDurationMinutes,
		BaseFare:              d.BaseFare,
		FarePerKm:             d.FarePerKm,
	}
}

type placeDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Type       string             `bson:"type"`
	Subtype    string             `bson:"subtype,omitempty"`
	Lat        *float64           `bson:"lat,omitempty"`
	Lng        *float64           `bson:"lng,omitempty"`
	Area       string             `bson:"area,omitempty"`
	Rating     *float64           `bson:"rating,omitempty"`
	PriceLevel *int               `bson:"priceLevel,omitempty"`
	IsOpenNow  *bool              `bson:"isOpenNow,omitempty"`
}

func placeFromDomain(p domain.Place) placeDoc {
	return placeDoc{
		ID:         primitive.NewObjectID(),
		Name:       p.Name,
		Type:       string(p.Category),
		Subtype:    p.Subtype,
		Lat:        p.Lat,
		Lng:        p.Lng,
		Area:       p.Area,
		Rating:     p.Rating,
		PriceLevel: p.PriceLevel,
		IsOpenNow:  p.IsOpenNow,
	}
}

func (d placeDoc) toDomain() domain.Place {
	return domain.Place{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Category:   domain.PlaceCategory(d.Type),
		Subtype:    d.Subtype,
		Lat:        d.Lat,
		Lng:        d.Lng,
		Area:       d.Area,
		Rating:     d.Rating,
		PriceLevel: d.PriceLevel,
		IsOpenNow:  d.IsOpenNow,
	}
}

type taxiDriverDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Vehicle   string             `bson:"vehicle"`
	Area      string             `bson:"area"`
	Rating    *float64           `bson:"rating,omitempty"`
	Languages []string           `bson:"languages"`
}

func taxiDriverFromDomain(t domain.TaxiDriver) taxiDriverDoc {
	return taxiDriverDoc{
		ID:        primitive.NewObjectID(),
		Name:      t.Name,
		Phone:     t.Phone,
		Vehicle:   t.Vehicle,
		Area:      t.Area,
		Rating:    t.Rating,
		Languages: t.Languages,
	}
}

func (d taxiDriverDoc) toDomain() domain.TaxiDriver {
	languages := d.Languages
	if languages == nil {
		languages = []string{}
	}
	return domain.TaxiDriver{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Phone:     d.Phone,
		Vehicle:   d.Vehicle,
		Area:      d.Area,
		Rating:    d.Rating,
		Languages: languages,
	}
}

type dayPlanItemDoc struct {
	Time  string `bson:"time"`
	Title string `bson:"title"`
	Type  string `bson:"type"`
}

type dayPlanDoc struct {
	ID        string           `bson:"_id"`
	UserID    string           `bson:"userId"`
	Duration  string           `bson:"duration"`
	Interests []string         `bson:"interests"`
	Items     []dayPlanItemDoc `bson:"items"`
	CreatedAt time.Time        `bson:"createdAt"`
}

func dayPlanFromDomain(p domain.DayPlan) dayPlanDoc {
	doc := dayPlanDoc{
		ID:        p.ID,
		UserID:    p.UserID,
		Duration:  p.Duration,
		Interests: slices.Clone(p.Interests),
		Items:     make([]dayPlanItemDoc, len(p.Items)),
		CreatedAt: p.CreatedAt,
	}
	for i, it := range p.Items {
		doc.Items[i] = dayPlanItemDoc{Time: it.Time, Title: it.Title, Type: string(it.Type)}
	}
	return doc
}

func (d dayPlanDoc) toDomain() domain.DayPlan {
	p := domain.DayPlan{
		ID:        d.ID,
		UserID:    d.UserID,
		Duration:  d.Duration,
		Interests: d.Interests,
		Items:     make([]domain.DayPlanItem, len(d.Items)),
		CreatedAt: d.CreatedAt,
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	for i, it := range d.Items {
		p.Items[i] = domain.DayPlanItem{Time: it.Time, Title: it.Title, Type: domain.PlaceCategory(it.Type)}
	}
	return p
}
