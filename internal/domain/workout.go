package domain

import (
	"fmt"
	"time"
)

// Category groups catalog workouts.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryFlexibility Category = "flexibility"
	CategoryCombat      Category = "combat"
	CategoryEndurance   Category = "endurance"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStrength,
	CategoryCardio,
	CategoryFlexibility,
	CategoryCombat,
	CategoryEndurance,
}

// ParseCategory validates a raw category value.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown workout category %q", s)
}

// Difficulty is shared by catalog workouts and daily challenges.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyLegendary    Difficulty = "legendary"
)

// ParseDifficulty validates a raw difficulty value.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyLegendary:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Workout is a catalog entry. The catalog is read-only for the application.
type Workout struct {
	ID              string     `bson:"_id,omitempty" json:"id" yaml:"id"`
	Title           string     `bson:"title" json:"title" yaml:"title"`
	Description     *string    `bson:"description,omitempty" json:"description" yaml:"description,omitempty"`
	Category        Category   `bson:"category" json:"category" yaml:"category"`
	Difficulty      Difficulty `bson:"difficulty" json:"difficulty" yaml:"difficulty"`
	DurationMinutes *int       `bson:"durationMinutes,omitempty" json:"duration_minutes" yaml:"duration_minutes,omitempty"`
	Exercises       Exercises  `bson:"exercises,omitempty" json:"exercises" yaml:"exercises,omitempty"`
	MediaKey        string     `bson:"mediaKey,omitempty" json:"-" yaml:"media_key,omitempty"` // Object storage key of the demo video
	CreatedAt       time.Time  `bson:"createdAt" json:"created_at" yaml:"created_at,omitempty"`
}

// HasMedia reports whether a demo video is attached.
func (w *Workout) HasMedia() bool {
	return w.MediaKey != ""
}

// CategoryCount is the number of catalog workouts in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Workouts int      `json:"workouts"`
}
