package domain

import "fmt"

// Preferences are the optional knobs a user sets when asking for
// recommendations. Unset fields mean "any".
type Preferences struct {
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	Duration   *int        `json:"duration,omitempty"` // minutes
	Categories []Category  `json:"categories,omitempty"`
	Goals      *string     `json:"goals,omitempty"`
}

// Validate rejects values the recommendation form can not produce.
func (p Preferences) Validate() error {
	if p.Difficulty != nil {
		switch *p.Difficulty {
		case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		default:
			return fmt.Errorf("unsupported preferred difficulty %q", *p.Difficulty)
		}
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return fmt.Errorf("preferred duration must be positive, got %d", *p.Duration)
	}
	for _, c := range p.Categories {
		if _, err := ParseCategory(string(c)); err != nil {
			return err
		}
	}
	return nil
}

// Recommendation is a catalog workout suggested for a user. It is produced per
// request and never stored.
type Recommendation struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Category        Category   `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationMinutes *int       `json:"duration_minutes"`
	Description     *string    `json:"description"`
	Reason          string     `json:"reason"`
	Priority        int        `json:"priority"` // 1 (highest) to 3
}

// UserContext summarises the profile a recommendation set was built for.
type UserContext struct {
	TotalWorkouts int `json:"totalWorkouts"`
	CurrentStreak int `json:"currentStreak"`
	RankLevel     int `json:"rankLevel"`
}

// RecommendationSet is the result of one recommendation request.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	UserContext     UserContext      `json:"userContext"`
}
