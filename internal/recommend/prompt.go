// Package recommend turns a user's context and the workout catalog into a
// model prompt, and the model's reply back into catalog recommendations.
package recommend

import (
	"fmt"
	"strings"

	"spartan/fitness-tracker/internal/domain"
)

const (
	DefaultCount = 3
	MaxCount     = 10

	// HistoryWindow is how many completions are loaded; RecentWindow of
	// those make it into the prompt.
	HistoryWindow = 10
	RecentWindow  = 5

	SystemPrompt = "You are a professional fitness trainer AI that provides personalized workout recommendations."
)

// NormalizeCount applies the default for absent or non-positive counts and the upper cap.
func NormalizeCount(count int) int {
	if count <= 0 {
		return DefaultCount
	}
	if count > MaxCount {
		return MaxCount
	}
	return count
}

// ResolvedPreferences are Preferences with every gap filled in.
type ResolvedPreferences struct {
	Difficulty string
	Duration   int
	Categories []string
	Goals      string
}

func ResolvePreferences(p *domain.Preferences) ResolvedPreferences {
	r := ResolvedPreferences{
		Difficulty: string(domain.DifficultyBeginner),
		Duration:   30,
		Goals:      "general fitness",
	}
	if p == nil {
		return r
	}
	if p.Difficulty != nil && *p.Difficulty != "" {
		r.Difficulty = string(*p.Difficulty)
	}
	if p.Duration != nil && *p.Duration > 0 {
		r.Duration = *p.Duration
	}
	for _, c := range p.Categories {
		r.Categories = append(r.Categories, string(c))
	}
	if p.Goals != nil && strings.TrimSpace(*p.Goals) != "" {
		r.Goals = *p.Goals
	}
	return r
}

// ProfileOrDefault returns a copy of p, or the zero-stats rank 1 profile when p is nil.
func ProfileOrDefault(p *domain.Profile) domain.Profile {
	if p == nil {
		return domain.Profile{RankLevel: 1}
	}
	out := *p
	if out.RankLevel < 1 {
		out.RankLevel = 1
	}
	return out
}

// PromptInput is everything the prompt is built from.
type PromptInput struct {
	Profile     domain.Profile
	Recent      []domain.CompletedWorkout // newest first, already trimmed
	Preferences ResolvedPreferences
	Catalog     []domain.Workout
	Count       int
}

// BuildPrompt renders the user prompt. The output depends only on in.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional fitness trainer AI. Based on the user's profile and preferences, recommend %d specific workouts from the available options.\n\n", in.Count)

	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Experience Points: %d\n", in.Profile.ExperiencePoints)
	fmt.Fprintf(&b, "- Current Streak: %d days\n", in.Profile.CurrentStreak)
	fmt.Fprintf(&b, "- Total Workouts: %d\n", in.Profile.TotalWorkouts)
	fmt.Fprintf(&b, "- Rank Level: %d\n\n", in.Profile.RankLevel)

	b.WriteString("Recent Workout History:\n")
	for _, c := range in.Recent {
		category, difficulty := "unknown", "unknown"
		if c.Workout != nil {
			category, difficulty = string(c.Workout.Category), string(c.Workout.Difficulty)
		}
		fmt.Fprintf(&b, "- %s (%s) - %s mins\n", category, difficulty, optInt(c.DurationMinutes))
	}
	b.WriteString("\n")

	categories := "any"
	if len(in.Preferences.Categories) > 0 {
		categories = strings.Join(in.Preferences.Categories, ", ")
	}
	b.WriteString("User Preferences:\n")
	fmt.Fprintf(&b, "- Preferred Difficulty: %s\n", in.Preferences.Difficulty)
	fmt.Fprintf(&b, "- Preferred Duration: %d minutes\n", in.Preferences.Duration)
	fmt.Fprintf(&b, "- Preferred Categories: %s\n", categories)
	fmt.Fprintf(&b, "- Fitness Goals: %s\n\n", in.Preferences.Goals)

	b.WriteString("Available Workouts:\n")
	for _, w := range in.Catalog {
		fmt.Fprintf(&b, "- ID: %s, Title: %s, Category: %s, Difficulty: %s, Duration: %s mins, Description: %s\n",
			w.ID, w.Title, w.Category, w.Difficulty, optInt(w.DurationMinutes), optString(w.Description))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Please recommend exactly %d workouts that best match the user's profile and preferences. ", in.Count)
	b.WriteString("Consider their experience level, recent activity patterns, and stated preferences. ")
	b.WriteString("Provide variety while staying within their comfort zone.\n\n")

	b.WriteString("Respond with a JSON array of objects, each containing:\n")
	b.WriteString("- id: the workout ID from the available workouts\n")
	fmt.Fprintf(&b, "- reason: a brief explanation (max %d chars) of why this workout is recommended for this user\n", MaxReasonLength)
	fmt.Fprintf(&b, "- priority: number from %d-%d (%d = highest priority)\n\n", MinPriority, MaxPriority, MinPriority)

	b.WriteString(`Example format:
[
  {
    "id": "workout-id-here",
    "reason": "Perfect intensity for your current streak and builds on recent strength training",
    "priority": 1
  }
]`)

	return b.String()
}

func optInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
