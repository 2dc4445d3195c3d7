package hooks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/hooks"
)

func TestProfileFetch(t *testing.T) {
	src := &fakeSource{authed: true, profile: &domain.Profile{UserID: "u1", RankLevel: 5, CurrentStreak: 30}}
	notes := &recorder{}
	p := hooks.NewProfile(src, notes)
	assert.True(t, p.Loading())

	changes := 0
	unsubscribe := p.Subscribe(func() { changes++ })

	require.NoError(t, p.Fetch(context.Background()))
	assert.False(t, p.Loading())
	assert.Equal(t, 1, changes)
	require.NotNil(t, p.Snapshot())
	assert.Equal(t, 5, p.Snapshot().RankLevel)

	stats := p.Stats()
	assert.Equal(t, domain.RankWarrior, stats.Rank)
	assert.Equal(t, float64(100), stats.Cards[0].Progress)
	assert.Empty(t, notes.all())

	unsubscribe()
	require.NoError(t, p.Fetch(context.Background()))
	assert.Equal(t, 1, changes)
}

func TestProfileFetchSignedOut(t *testing.T) {
	p := hooks.NewProfile(&fakeSource{}, &recorder{})

	require.NoError(t, p.Fetch(context.Background()))
	assert.Nil(t, p.Snapshot())
	assert.Equal(t, domain.RankRecruit, p.Stats().Rank)
}

func TestProfileFetchFailureKeepsState(t *testing.T) {
	src := &fakeSource{authed: true, profile: &domain.Profile{RankLevel: 3}}
	notes := &recorder{}
	p := hooks.NewProfile(src, notes)
	require.NoError(t, p.Fetch(context.Background()))

	src.profileErr = errBackend
	err := p.Fetch(context.Background())

	var dataErr *hooks.DataAccessError
	require.ErrorAs(t, err, &dataErr)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 3, p.Snapshot().RankLevel)
	require.Len(t, notes.all(), 1)
	assert.Equal(t, hooks.Notice{Title: "Error loading profile", Description: "connection refused", Destructive: true}, notes.all()[0])
}

func TestProfileUpdate(t *testing.T) {
	src := &fakeSource{authed: true, profile: &domain.Profile{RankLevel: 1}}
	notes := &recorder{}
	p := hooks.NewProfile(src, notes)
	require.NoError(t, p.Fetch(context.Background()))

	err := p.Update(context.Background(), domain.ProfileUpdate{DisplayName: strp("Leonidas"), RankLevel: intp(10)})
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Equal(t, "Leonidas", *snap.DisplayName)
	assert.Equal(t, 10, snap.RankLevel)
	assert.Equal(t, []string{"Profile Updated"}, notes.titles())
}

func TestProfileUpdateFailures(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		notes := &recorder{}
		p := hooks.NewProfile(&fakeSource{}, notes)

		err := p.Update(context.Background(), domain.ProfileUpdate{RankLevel: intp(2)})
		var authErr *hooks.NotAuthenticatedError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, hooks.AuthEntryPoint, authErr.RedirectTo)
		assert.Equal(t, []string{"Error updating profile"}, notes.titles())
	})

	t.Run("backend", func(t *testing.T) {
		src := &fakeSource{authed: true, profile: &domain.Profile{RankLevel: 1}}
		notes := &recorder{}
		p := hooks.NewProfile(src, notes)
		require.NoError(t, p.Fetch(context.Background()))

		src.updateErr = errors.New("rank_level must be >= 1")
		err := p.Update(context.Background(), domain.ProfileUpdate{RankLevel: intp(0)})
		require.Error(t, err)
		assert.Equal(t, 1, p.Snapshot().RankLevel)
		require.Len(t, notes.all(), 1)
		assert.True(t, notes.all()[0].Destructive)
	})
}
