// Package dayplan builds and stores simple one-day itineraries from the
// place catalog.
package dayplan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"travelassist/internal/domain"
)

const (
	DurationHalf = "half"
	DurationFull = "full"

	candidateLimit = 12
	timelineSlots  = 6
	startHour      = 9
)

// defaultCategories apply when the user names no interests.
var defaultCategories = []domain.PlaceCategory{
	domain.PlaceAttraction,
	domain.PlaceFood,
	domain.PlaceActivity,
}

type Store interface {
	FindPlaces(ctx context.Context, categories []domain.PlaceCategory, limit int) ([]domain.Place, error)
	SaveDayPlan(ctx context.Context, plan domain.DayPlan) error
	ListDayPlansByUser(ctx context.Context, userID string) ([]domain.DayPlan, error)
}

type Service struct {
	store  Store
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger.With("component", "dayplan"),
	}
}

// Create builds a timeline from up to twelve catalog places matching the
// interests and saves it for userID. The first six places get slots from
// 09:00 at 90 minute steps, truncated to the hour.
func (s *Service) Create(ctx context.Context, userID, duration string, interests []string) (*domain.DayPlan, error) {
	if userID == "" {
		return nil, fmt.Errorf("dayplan: Create: user is required: %w", domain.ErrInvalidInput)
	}
	duration, ok := NormalizeDuration(duration)
	if !ok {
		return nil, fmt.Errorf("dayplan: Create: duration must be %q or %q: %w", DurationHalf, DurationFull, domain.ErrInvalidInput)
	}
	if interests == nil {
		interests = []string{}
	}

	categories := defaultCategories
	if len(interests) > 0 {
		categories = lo.Uniq(lo.Map(interests, func(i string, _ int) domain.PlaceCategory {
			return CategoryForInterest(i)
		}))
	}

	places, err := s.store.FindPlaces(ctx, categories, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("dayplan: Create: %w", domain.Upstream("find places", err))
	}

	plan := domain.DayPlan{
		ID:        s.newID(),
		UserID:    userID,
		Duration:  duration,
		Interests: interests,
		Items:     Timeline(places),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveDayPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("dayplan: Create: %w", domain.Upstream("save day plan", err))
	}

	s.logger.Info("day plan created",
		"plan_id", plan.ID,
		"user_id", userID,
		"duration", duration,
		"candidates", len(places),
		"items", len(plan.Items),
	)
	return &plan, nil
}

// NormalizeDuration maps the accepted spellings ("half", "halfDay",
// "half-day", "half_day" and the full equivalents, any case) onto
// DurationHalf or DurationFull.
func NormalizeDuration(duration string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(duration))
	d = strings.NewReplacer("-", "", "_", "", " ", "").Replace(d)
	d = strings.TrimSuffix(d, "day")
	switch d {
	case DurationHalf, DurationFull:
		return d, true
	}
	return "", false
}

// Mine lists the user's plans, newest first.
func (s *Service) Mine(ctx context.Context, userID string) ([]domain.DayPlan, error) {
	if userID == "" {
		return nil, fmt.Errorf("dayplan: Mine: user is required: %w", domain.ErrInvalidInput)
	}
	plans, err := s.store.ListDayPlansByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dayplan: Mine: %w", domain.Upstream("list day plans", err))
	}
	return plans, nil
}

// CategoryForInterest maps a free-form interest to a place category.
func CategoryForInterest(interest string) domain.PlaceCategory {
	switch strings.ToLower(strings.TrimSpace(interest)) {
	case "food":
		return domain.PlaceFood
	case "backwaters", "beach", "shopping":
		return domain.PlaceActivity
	default:
		return domain.PlaceAttraction
	}
}

// Timeline slots the first six places.
func Timeline(places []domain.Place) []domain.DayPlanItem {
	n := min(len(places), timelineSlots)
	items := make([]domain.DayPlanItem, 0, n)
	for i, p := range places[:n] {
		hour := startHour + (3*i)/2
		items = append(items, domain.DayPlanItem{
			Time:  fmt.Sprintf("%d:00", hour),
			Title: p.Name,
			Type:  itemType(p.Category),
		})
	}
	return items
}

func itemType(c domain.PlaceCategory) domain.PlaceCategory {
	switch c {
	case domain.PlaceFood, domain.PlaceActivity:
		return c
	default:
		return domain.PlaceAttraction
	}
}
