package domain

import "time"

// DayPlanItem is one slot of a day plan timeline.
type DayPlanItem struct {
	Time  string        `json:"time"`
	Title string        `json:"title"`
	Type  PlaceCategory `json:"type"`
}

// DayPlan is a saved itinerary for a user.
type DayPlan struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Duration  string        `json:"duration"`
	Interests []string      `json:"interests"`
	Items     []DayPlanItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
}
