package hooks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/hooks"
	"spartan/fitness-tracker/internal/service"
)

func recommendationSet(n int) *domain.RecommendationSet {
	set := &domain.RecommendationSet{UserContext: domain.UserContext{TotalWorkouts: 12, CurrentStreak: 3, RankLevel: 2}}
	for i := 0; i < n; i++ {
		set.Recommendations = append(set.Recommendations, domain.Recommendation{ID: "w", Priority: i + 1})
	}
	return set
}

func TestRecommendationsRequest(t *testing.T) {
	src := &fakeSource{authed: true, recommendSet: recommendationSet(3)}
	notes := &recorder{}
	r := hooks.NewRecommendations(src, notes)

	var busySeen []bool
	r.Subscribe(func() { busySeen = append(busySeen, r.Busy()) })

	set, err := r.Request(context.Background(), domain.Preferences{}, 0)
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, 1, src.recommendCalls)
	assert.Equal(t, 3, src.recommendReq.Count)
	assert.Len(t, r.List(), 3)
	assert.Equal(t, 12, r.UserContext().TotalWorkouts)
	assert.False(t, r.Busy())
	assert.Equal(t, []bool{true, false}, busySeen)
	assert.Equal(t, []hooks.Notice{{
		Title:       "Recommendations Ready!",
		Description: "Generated 3 personalized workout recommendations.",
	}}, notes.all())
}

func TestRecommendationsSignedOut(t *testing.T) {
	src := &fakeSource{}
	notes := &recorder{}
	r := hooks.NewRecommendations(src, notes)

	_, err := r.Request(context.Background(), domain.Preferences{}, 3)
	require.ErrorIs(t, err, hooks.ErrRedirectToAuth)

	var authErr *hooks.NotAuthenticatedError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "/auth", authErr.RedirectTo)
	assert.Zero(t, src.recommendCalls)
	assert.Empty(t, notes.all())
}

func TestRecommendationsInvalidPreferences(t *testing.T) {
	src := &fakeSource{authed: true}
	notes := &recorder{}
	r := hooks.NewRecommendations(src, notes)

	legendary := domain.DifficultyLegendary
	_, err := r.Request(context.Background(), domain.Preferences{Difficulty: &legendary}, 3)
	require.ErrorIs(t, err, service.ErrInvalidPreferences)

	_, err = r.Request(context.Background(), domain.Preferences{Categories: []domain.Category{"yoga"}}, 3)
	require.ErrorIs(t, err, service.ErrInvalidPreferences)
	assert.Zero(t, src.recommendCalls)
	assert.False(t, r.Busy())

	notices := notes.all()
	require.Len(t, notices, 2)
	for _, n := range notices {
		assert.Equal(t, "Error", n.Title)
		assert.True(t, n.Destructive)
		assert.Contains(t, n.Description, "invalid recommendation preferences")
	}
}

func TestRecommendationsFailureKeepsList(t *testing.T) {
	src := &fakeSource{authed: true, recommendSet: recommendationSet(2)}
	notes := &recorder{}
	r := hooks.NewRecommendations(src, notes)
	_, err := r.Request(context.Background(), domain.Preferences{}, 2)
	require.NoError(t, err)

	src.recommendErr = &hooks.RemoteError{StatusCode: 500, Message: "openai API error: 503"}
	_, err = r.Request(context.Background(), domain.Preferences{}, 2)
	require.Error(t, err)
	assert.Len(t, r.List(), 2)
	assert.False(t, r.Busy())

	src.recommendErr = errors.New("dial tcp: connection refused")
	_, err = r.Request(context.Background(), domain.Preferences{}, 2)
	require.Error(t, err)

	all := notes.all()
	require.Len(t, all, 3)
	assert.Equal(t, "Failed to get workout recommendations. Please try again.", all[1].Description)
	assert.Equal(t, "Something went wrong. Please try again.", all[2].Description)
	assert.True(t, all[2].Destructive)
}

func TestRecommendationsBusy(t *testing.T) {
	src := &fakeSource{
		authed:       true,
		recommendSet: recommendationSet(1),
		gate:         make(chan struct{}),
		entered:      make(chan struct{}),
	}
	r := hooks.NewRecommendations(src, &recorder{})

	done := make(chan error, 1)
	go func() {
		_, err := r.Request(context.Background(), domain.Preferences{}, 1)
		done <- err
	}()

	<-src.entered
	assert.True(t, r.Busy())
	_, err := r.Request(context.Background(), domain.Preferences{}, 1)
	require.ErrorIs(t, err, hooks.ErrBusy)

	close(src.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, src.recommendCalls)
	assert.False(t, r.Busy())
}
