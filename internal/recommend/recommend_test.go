package recommend_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/recommend"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func testCatalog(n int) []domain.Workout {
	out := make([]domain.Workout, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Workout{
			ID:              fmt.Sprintf("w%d", i),
			Title:           fmt.Sprintf("Workout %d", i),
			Category:        domain.CategoryStrength,
			Difficulty:      domain.DifficultyBeginner,
			DurationMinutes: intp(20 + i),
			Description:     strp("desc"),
		})
	}
	return out
}

func TestNormalizeCount(t *testing.T) {
	assert.Equal(t, 3, recommend.NormalizeCount(0))
	assert.Equal(t, 3, recommend.NormalizeCount(-4))
	assert.Equal(t, 5, recommend.NormalizeCount(5))
	assert.Equal(t, 10, recommend.NormalizeCount(50))
}

func TestResolvePreferences_Defaults(t *testing.T) {
	r := recommend.ResolvePreferences(nil)
	assert.Equal(t, "beginner", r.Difficulty)
	assert.Equal(t, 30, r.Duration)
	assert.Empty(t, r.Categories)
	assert.Equal(t, "general fitness", r.Goals)

	d := domain.DifficultyAdvanced
	r = recommend.ResolvePreferences(&domain.Preferences{
		Difficulty: &d,
		Duration:   intp(45),
		Categories: []domain.Category{domain.CategoryCombat, domain.CategoryCardio},
		Goals:      strp("lose weight"),
	})
	assert.Equal(t, "advanced", r.Difficulty)
	assert.Equal(t, 45, r.Duration)
	assert.Equal(t, []string{"combat", "cardio"}, r.Categories)
	assert.Equal(t, "lose weight", r.Goals)
}

func TestProfileOrDefault(t *testing.T) {
	p := recommend.ProfileOrDefault(nil)
	assert.Equal(t, 0, p.ExperiencePoints)
	assert.Equal(t, 0, p.CurrentStreak)
	assert.Equal(t, 0, p.TotalWorkouts)
	assert.Equal(t, 1, p.RankLevel)
}

func TestBuildPrompt(t *testing.T) {
	in := recommend.PromptInput{
		Profile: domain.Profile{ExperiencePoints: 1200, CurrentStreak: 4, TotalWorkouts: 17, RankLevel: 3},
		Recent: []domain.CompletedWorkout{
			{
				UserWorkout: domain.UserWorkout{DurationMinutes: intp(25)},
				Workout:     &domain.Workout{Category: domain.CategoryCardio, Difficulty: domain.DifficultyIntermediate},
			},
		},
		Preferences: recommend.ResolvePreferences(nil),
		Catalog:     testCatalog(2),
		Count:       2,
	}

	prompt := recommend.BuildPrompt(in)

	assert.True(t, strings.HasPrefix(prompt, "You are a professional fitness trainer AI. Based on the user's profile and preferences, recommend 2 specific workouts"))
	assert.Contains(t, prompt, "- Experience Points: 1200\n")
	assert.Contains(t, prompt, "- Current Streak: 4 days\n")
	assert.Contains(t, prompt, "- Rank Level: 3\n")
	assert.Contains(t, prompt, "- cardio (intermediate) - 25 mins\n")
	assert.Contains(t, prompt, "- Preferred Categories: any\n")
	assert.Contains(t, prompt, "- Fitness Goals: general fitness\n")
	assert.Contains(t, prompt, "- ID: w1, Title: Workout 1, Category: strength, Difficulty: beginner, Duration: 21 mins, Description: desc\n")
	assert.Contains(t, prompt, "Please recommend exactly 2 workouts")
	assert.Contains(t, prompt, "- priority: number from 1-3 (1 = highest priority)")
	assert.Equal(t, prompt, recommend.BuildPrompt(in), "prompt must be deterministic")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []recommend.Pick
	}{
		{
			name:  "plain array",
			reply: `[{"id":"w1","reason":"good","priority":1},{"id":"w2","reason":"ok","priority":2}]`,
			want:  []recommend.Pick{{ID: "w1", Reason: "good", Priority: 1}, {ID: "w2", Reason: "ok", Priority: 2}},
		},
		{
			name:  "fenced with whitespace",
			reply: "\n  ```json\n[{\"id\":\"w3\",\"reason\":\"r\",\"priority\":3}]\n```  \n",
			want:  []recommend.Pick{{ID: "w3", Reason: "r", Priority: 3}},
		},
		{
			name:  "priority clamped and defaulted",
			reply: `[{"id":"a","priority":9},{"id":"b","priority":-2},{"id":"c"}]`,
			want:  []recommend.Pick{{ID: "a", Priority: 3}, {ID: "b", Priority: 1}, {ID: "c", Priority: 3}},
		},
		{
			name:  "empty array",
			reply: `[]`,
			want:  []recommend.Pick{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recommend.Parse(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	replies := []string{
		"Sure! Here are some workouts: w1, w2",
		`{"id":"w1"}`,
		`[1, 2, 3]`,
		`[{"reason":"no id"}]`,
		`[{"id": 42}]`,
		`[null]`,
		`here you go: [{"id":"w1"}]`,
	}
	for _, reply := range replies {
		_, err := recommend.Parse(reply)
		var parseErr *recommend.ParseError
		assert.ErrorAs(t, err, &parseErr, reply)
	}
}

func TestReconcile_DropsUnknownIDs(t *testing.T) {
	catalog := testCatalog(5)
	picks := []recommend.Pick{
		{ID: "w2", Reason: "a", Priority: 1},
		{ID: "ghost", Reason: "b", Priority: 2},
		{ID: "w4", Reason: "c", Priority: 3},
	}

	recs, dropped := recommend.Reconcile(picks, catalog, 3)

	assert.Equal(t, 1, dropped)
	require.Len(t, recs, 2)
	assert.LessOrEqual(t, len(recs), 3-dropped)
	assert.Equal(t, "w2", recs[0].ID)
	assert.Equal(t, "Workout 2", recs[0].Title)
	assert.Equal(t, "w4", recs[1].ID)
	assert.Equal(t, 3, recs[1].Priority)
}

func TestReconcile_TruncatesAndCaps(t *testing.T) {
	catalog := testCatalog(5)
	long := strings.Repeat("x", 140)
	picks := []recommend.Pick{
		{ID: "w1", Reason: long, Priority: 1},
		{ID: "w2", Priority: 1},
		{ID: "w3", Priority: 1},
	}

	recs, dropped := recommend.Reconcile(picks, catalog, 2)

	assert.Zero(t, dropped)
	require.Len(t, recs, 2)
	assert.Len(t, recs[0].Reason, recommend.MaxReasonLength)
}

func TestFallback(t *testing.T) {
	catalog := testCatalog(6)

	picks := recommend.Fallback(catalog, 5)
	recs, dropped := recommend.Reconcile(picks, catalog, 5)

	assert.Zero(t, dropped)
	require.Len(t, recs, 5)
	for i, r := range recs {
		assert.Equal(t, catalog[i].ID, r.ID)
		assert.Equal(t, i+1, r.Priority)
		assert.Equal(t, recommend.FallbackReason, r.Reason)
	}
}

func TestFallback_SmallCatalog(t *testing.T) {
	assert.Len(t, recommend.Fallback(testCatalog(2), 3), 2)
	assert.Empty(t, recommend.Fallback(nil, 3))
}
