package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"travelassist/internal/domain"
)

const (
	collRoutes      = "busroutes"
	collVehicles    = "buses"
	collPlaces      = "places"
	collTaxiDrivers = "taxidrivers"
	collDayPlans    = "dayplans"
)

// byInsertion keeps multi-result queries in catalog order. ObjectIDs grow
// with insertion time.
var byInsertion = bson.D{{Key: "_id", Value: 1}}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// NewMongoStore connects, pings and ensures indexes. timeout bounds the
// whole startup sequence.
func NewMongoStore(uri, database string, timeout time.Duration, logger *slog.Logger) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{
		client: client,
		db:     client.Database(database),
		logger: logger.With("component", "mongo_store", "database", database),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	s.logger.Info("connected to mongodb")
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collVehicles: {
			{
				Keys:    bson.D{{Key: "routeId", Value: 1}, {Key: "operatorType", Value: 1}},
				Options: options.Index().SetName("route_operator_idx"),
			},
		},
		collPlaces: {
			{
				Keys:    bson.D{{Key: "type", Value: 1}},
				Options: options.Index().SetName("type_idx"),
			},
		},
		collDayPlans: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("user_created_idx"),
			},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", coll, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetRouteByFromTo returns the first route, by insertion, whose from and to
// labels match the query in the stored direction.
func (s *MongoStore) GetRouteByFromTo(ctx context.Context, from, to string) (*domain.Route, error) {
	filter, ok := routeLabelFilter(from, to)
	if !ok {
		return nil, nil
	}

	start := time.Now()
	var doc routeDoc
	err := s.db.Collection(collRoutes).
		FindOne(ctx, filter, options.FindOne().SetSort(byInsertion)).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Debug("route not found", "from", from, "to", to)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route by from/to: %w", err)
	}
	s.logger.Debug("route found", "from", from, "to", to, "route_id", doc.ID.Hex(), "duration_ms", time.Since(start).Milliseconds())

	route := doc.toDomain()
	return &route, nil
}

func (s *MongoStore) GetRouteByID(ctx context.Context, id string) (*domain.Route, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc routeDoc
	err = s.db.Collection(collRoutes).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find route %s: %w", id, err)
	}
	route := doc.toDomain()
	return &route, nil
}

func (s *MongoStore) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	docs, err := findAll[routeDoc](ctx, s.db.Collection(collRoutes), bson.M{}, 0)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return lo.Map(docs, func(d routeDoc, _ int) domain.Route { return d.toDomain() }), nil
}

func (s *MongoStore) GetVehiclesByRoute(ctx context.Context, routeID string) ([]domain.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(routeID)
	if err != nil {
		return []domain.Vehicle{}, nil
	}
	return s.findVehicles(ctx, bson.M{"routeId": oid})
}

func (s *MongoStore) GetVehiclesByRouteAndCategory(ctx context.Context, routeID string, category domain.OperatorCategory) ([]domain.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(routeID)
	if err != nil {
		return []domain.Vehicle{}, nil
	}
	return s.findVehicles(ctx, bson.M{"routeId": oid, "operatorType": string(category)})
}

func (s *MongoStore) findVehicles(ctx context.Context, filter bson.M) ([]domain.Vehicle, error) {
	docs, err := findAll[vehicleDoc](ctx, s.db.Collection(collVehicles), filter, 0)
	if err != nil {
		return nil, fmt.Errorf("find vehicles: %w", err)
	}
	return lo.Map(docs, func(d vehicleDoc, _ int) domain.Vehicle { return d.toDomain() }), nil
}

func (s *MongoStore) GetPlacesByCategory(ctx context.Context, category domain.PlaceCategory) ([]domain.Place, error) {
	return s.findPlaces(ctx, bson.M{"type": string(category)}, 0)
}

func (s *MongoStore) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	return s.findPlaces(ctx, bson.M{}, 0)
}

func (s *MongoStore) FindPlaces(ctx context.Context, categories []domain.PlaceCategory, limit int) ([]domain.Place, error) {
	types := lo.Map(categories, func(c domain.PlaceCategory, _ int) string { return string(c) })
	return s.findPlaces(ctx, bson.M{"type": bson.M{"$in": types}}, limit)
}

func (s *MongoStore) findPlaces(ctx context.Context, filter bson.M, limit int) ([]domain.Place, error) {
	docs, err := findAll[placeDoc](ctx, s.db.Collection(collPlaces), filter, limit)
	if err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}
	return lo.Map(docs, func(d placeDoc, _ int) domain.Place { return d.toDomain() }), nil
}

func (s *MongoStore) ListTaxiDrivers(ctx context.Context) ([]domain.TaxiDriver, error) {
	docs, err := findAll[taxiDriverDoc](ctx, s.db.Collection(collTaxiDrivers), bson.M{}, 0)
	if err != nil {
		return nil, fmt.Errorf("list taxi drivers: %w", err)
	}
	return lo.Map(docs, func(d taxiDriverDoc, _ int) domain.TaxiDriver { return d.toDomain() }), nil
}

func (s *MongoStore) SaveDayPlan(ctx context.Context, plan domain.DayPlan) error {
	if _, err := s.db.Collection(collDayPlans).InsertOne(ctx, dayPlanFromDomain(plan)); err != nil {
		return fmt.Errorf("insert day plan: %w", err)
	}
	return nil
}

// ListDayPlansByUser returns the user's plans, newest first.
func (s *MongoStore) ListDayPlansByUser(ctx context.Context, userID string) ([]domain.DayPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(collDayPlans).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find day plans: %w", err)
	}
	var docs []dayPlanDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode day plans: %w", err)
	}
	plans := lo.Map(docs, func(d dayPlanDoc, _ int) domain.DayPlan { return d.toDomain() })
	if plans == nil {
		plans = []domain.DayPlan{}
	}
	return plans, nil
}

// Seed clears the catalog collections and inserts data. Dataset IDs are
// replaced by fresh ObjectIDs and vehicle route references are remapped.
// Vehicles pointing at a route missing from data are skipped.
func (s *MongoStore) Seed(ctx context.Context, data Dataset) error {
	start := time.Now()

	for _, coll := range []string{collRoutes, collVehicles, collPlaces, collTaxiDrivers} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", coll, err)
		}
	}

	routeIDs := make(map[string]primitive.ObjectID, len(data.Routes))
	routes := make([]any, 0, len(data.Routes))
	for _, r := range data.Routes {
		doc := routeFromDomain(r)
		routeIDs[r.ID] = doc.ID
		routes = append(routes, doc)
	}

	vehicles := make([]any, 0, len(data.Vehicles))
	for _, v := range data.Vehicles {
		oid, ok := routeIDs[v.RouteID]
		if !ok {
			s.logger.Warn("skipping vehicle with unknown route", "vehicle", v.Name, "route_id", v.RouteID)
			continue
		}
		vehicles = append(vehicles, vehicleFromDomain(v, oid))
	}

	places := lo.Map(data.Places, func(p domain.Place, _ int) any { return placeFromDomain(p) })
	drivers := lo.Map(data.TaxiDrivers, func(d domain.TaxiDriver, _ int) any { return taxiDriverFromDomain(d) })

	inserts := []struct {
		coll string
		docs []any
	}{
		{collRoutes, routes},
		{collVehicles, vehicles},
		{collPlaces, places},
		{collTaxiDrivers, drivers},
	}
	for _, in := range inserts {
		if len(in.docs) == 0 {
			continue
		}
		if _, err := s.db.Collection(in.coll).InsertMany(ctx, in.docs, options.InsertMany().SetOrdered(true)); err != nil {
			return fmt.Errorf("insert %s: %w", in.coll, err)
		}
	}

	s.logger.Info("seeded catalog",
		"routes", len(routes),
		"vehicles", len(vehicles),
		"places", len(places),
		"taxi_drivers", len(drivers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	counts := make(map[string]int64, 5)
	for _, coll := range []string{collRoutes, collVehicles, collPlaces, collTaxiDrivers, collDayPlans} {
		n, err := s.db.Collection(coll).EstimatedDocumentCount(ctx)
		if err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", coll, err)
		}
		counts[coll] = n
	}
	return Stats{
		Backend:     "mongo",
		Routes:      int(counts[collRoutes]),
		Vehicles:    int(counts[collVehicles]),
		Places:      int(counts[collPlaces]),
		TaxiDrivers: int(counts[collTaxiDrivers]),
		DayPlans:    int(counts[collDayPlans]),
		IsLoaded:    counts[collRoutes] > 0,
	}, nil
}

// routeLabelFilter mirrors domain.LabelMatches on both labels: the stored
// label contains the query, or the query contains the non-empty stored
// label, case-insensitively. The query is matched literally. ok is false
// when either side of the query is blank, since nothing can match.
func routeLabelFilter(from, to string) (bson.M, bool) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, false
	}
	return bson.M{"$and": bson.A{
		labelFilter("from", from),
		labelFilter("to", to),
	}}, true
}

func labelFilter(field, query string) bson.M {
	lowered := bson.M{"$toLower": "$" + field}
	return bson.M{"$or": bson.A{
		bson.M{field: bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}},
		bson.M{"$expr": bson.M{"$and": bson.A{
			bson.M{"$gt": bson.A{bson.M{"$strLenCP": lowered}, 0}},
			bson.M{"$ne": bson.A{bson.M{"$indexOfCP": bson.A{strings.ToLower(query), lowered}}, -1}},
		}}},
	}}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, limit int) ([]T, error) {
	opts := options.Find().SetSort(byInsertion)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
