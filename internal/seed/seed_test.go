package seed_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
	"spartan/fitness-tracker/internal/seed"
)

type memWorkouts struct {
	repository.WorkoutRepository
	upserted []domain.Workout
	err      error
}

func (m *memWorkouts) Upsert(_ context.Context, w *domain.Workout) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, *w)
	return nil
}

type memChallenges struct {
	repository.DailyChallengeRepository
	upserted []domain.DailyChallenge
}

func (m *memChallenges) Upsert(_ context.Context, c *domain.DailyChallenge) error {
	m.upserted = append(m.upserted, *c)
	return nil
}

func TestLoadAndApply(t *testing.T) {
	f, err := seed.Load("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, f.Workouts, 2)
	require.Len(t, f.DailyChallenges, 2)

	phalanx := f.Workouts[0]
	assert.Equal(t, domain.CategoryStrength, phalanx.Category)
	assert.Equal(t, "workouts/phalanx-strength.mp4", phalanx.MediaKey)
	require.NotNil(t, phalanx.DurationMinutes)
	assert.Equal(t, 45, *phalanx.DurationMinutes)
	var exercises []struct {
		Name        string `json:"name"`
		RestSeconds int    `json:"rest_seconds"`
	}
	require.NoError(t, phalanx.Exercises.Decode(&exercises))
	require.Len(t, exercises, 2)
	assert.Equal(t, "Back squat", exercises[0].Name)
	assert.Equal(t, 120, exercises[0].RestSeconds)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), phalanx.CreatedAt.UTC())

	workouts := &memWorkouts{}
	challenges := &memChallenges{}
	now := func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC) }

	res, err := seed.Apply(context.Background(), f, workouts, challenges, now)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Workouts: 2, Challenges: 2}, res)
	assert.Equal(t, "2026-10-18", challenges.upserted[0].ChallengeDate)
	assert.Equal(t, "2024-03-02", challenges.upserted[1].ChallengeDate)
	// the parsed file keeps the alias
	assert.Equal(t, seed.TodayAlias, f.DailyChallenges[0].ChallengeDate)
}

func TestLoadAndApplyEmptyPathIsNoop(t *testing.T) {
	res, err := seed.LoadAndApply(context.Background(), "", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := seed.Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Workouts)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  "workouts:\n  - id: a\n    title: A\n    category: strength\n    difficulty: beginner\n    colour: red\n",
			want: "decode seed file",
		},
		{
			name: "missing title",
			doc:  "workouts:\n  - id: a\n    category: strength\n    difficulty: beginner\n",
			want: "id and title are required",
		},
		{
			name: "duplicate id",
			doc: "workouts:\n  - {id: a, title: A, category: strength, difficulty: beginner}\n" +
				"  - {id: a, title: B, category: cardio, difficulty: beginner}\n",
			want: "duplicate id",
		},
		{
			name: "bad category",
			doc:  "workouts:\n  - {id: a, title: A, category: yoga, difficulty: beginner}\n",
			want: "unknown workout category",
		},
		{
			name: "bad difficulty",
			doc:  "workouts:\n  - {id: a, title: A, category: combat, difficulty: godlike}\n",
			want: "unknown difficulty",
		},
		{
			name: "non positive duration",
			doc:  "workouts:\n  - {id: a, title: A, category: combat, difficulty: advanced, duration_minutes: 0}\n",
			want: "duration_minutes must be positive",
		},
		{
			name: "bad date",
			doc:  "daily_challenges:\n  - {id: c, title: C, difficulty: beginner, challenge_date: 18/10/2026}\n",
			want: "challenge_date must be",
		},
		{
			name: "shared date",
			doc: "daily_challenges:\n  - {id: c1, title: C, difficulty: beginner, challenge_date: today}\n" +
				"  - {id: c2, title: D, difficulty: beginner, challenge_date: today}\n",
			want: "share date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyStopsOnError(t *testing.T) {
	f, err := seed.Load("testdata/catalog.yaml")
	require.NoError(t, err)

	boom := errors.New("write conflict")
	_, err = seed.Apply(context.Background(), f, &memWorkouts{err: boom}, &memChallenges{}, time.Now)
	require.ErrorIs(t, err, boom)
}
