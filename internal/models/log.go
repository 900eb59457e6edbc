// internal/models/log.go
package models

import (
	"time"
)

// LogEntry is one logged event (shot day check-in, side effects, protein).
// Entries are immutable once created; deletion reverses the entry's protein
// contribution on the counter for the entry's calendar day.
type LogEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	LoggedAt   time.Time `json:"logged_at"`
	WeightKg   float64   `json:"weight_kg"`
	SideEffect string    `json:"side_effect"`
	Emotion    string    `json:"emotion"`
	FoodNoise  int       `json:"food_noise"` // 1..5 intensity
	ProteinG   float64   `json:"protein_g"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyIntake is the pair of running totals for one calendar day.
type DailyIntake struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	WaterMl  float64 `json:"water_ml"`
	ProteinG float64 `json:"protein_g"`
}

// NewsArticle is a cached article from the upstream content feed.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// SideEffectInfo is the cached side-effect document for one medication.
type SideEffectInfo struct {
	Medication string   `json:"medication"`
	Common     []string `json:"common"`
	Serious    []string `json:"serious"`
	Guidance   string   `json:"guidance"`
}
