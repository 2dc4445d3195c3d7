package domain

import (
	"fmt"
	"strconv"
)

// Rank names by level threshold.
const (
	RankRecruit = "Recruit"
	RankFighter = "Spartan Fighter"
	RankWarrior = "Spartan Warrior"
	RankElite   = "Spartan Elite"
	RankLegend  = "Spartan Legend"
)

// RankName maps a rank level to its display name.
func RankName(level int) string {
	switch {
	case level >= 10:
		return RankLegend
	case level >= 7:
		return RankElite
	case level >= 5:
		return RankWarrior
	case level >= 3:
		return RankFighter
	default:
		return RankRecruit
	}
}

// StatCard is one tile of the progress overview.
type StatCard struct {
	Title    string  `json:"title"`
	Value    string  `json:"value"`
	Unit     string  `json:"unit"`
	Progress float64 `json:"progress"` // always within [0, 100]
}

// Stats is the progress overview shown on the profile page.
type Stats struct {
	Rank  string     `json:"rank"`
	Cards []StatCard `json:"cards"`
}

// ClampProgress bounds a progress bar value to [0, 100].
func ClampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ComputeStats builds the overview for p. A nil profile yields the
// placeholder overview shown to signed-out visitors.
func ComputeStats(p *Profile) Stats {
	if p == nil {
		return ComputeStats(&Profile{RankLevel: 1})
	}

	rank := RankName(p.RankLevel)
	return Stats{
		Rank: rank,
		Cards: []StatCard{
			{
				Title:    "Current Streak",
				Value:    strconv.Itoa(p.CurrentStreak),
				Unit:     "days",
				Progress: ClampProgress(float64(p.CurrentStreak) * 5),
			},
			{
				Title:    "Rank",
				Value:    rank,
				Unit:     fmt.Sprintf("Level %d", p.RankLevel),
				Progress: ClampProgress(float64(p.RankLevel) / 10 * 100),
			},
			{
				Title:    "Workouts Completed",
				Value:    strconv.Itoa(p.TotalWorkouts),
				Unit:     "sessions",
				Progress: ClampProgress(float64(p.TotalWorkouts) * 2),
			},
			{
				Title:    "Experience Points",
				Value:    strconv.Itoa(p.ExperiencePoints),
				Unit:     "XP",
				Progress: ClampProgress(float64(p.ExperiencePoints) / 1000 * 100),
			},
		},
	}
}
