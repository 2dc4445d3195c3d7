package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartan/fitness-tracker/internal/service"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) (service.AuthService, *fakeUserRepo, *fakeProfileRepo) {
	t.Helper()
	users, profiles := newFakeUserRepo(), newFakeProfileRepo()
	return service.NewAuthService(users, profiles, testSecret, time.Hour), users, profiles
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	auth, _, profiles := newAuth(t)

	user, err := auth.Register(context.Background(), " Leonidas@Sparta.gr ", "thermopylae", strp("Leonidas"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "leonidas@sparta.gr", user.Email)
	assert.Empty(t, user.PasswordHash)

	profile, ok := profiles.profiles[user.ID]
	require.True(t, ok)
	assert.Equal(t, 1, profile.RankLevel)
	assert.Zero(t, profile.ExperiencePoints)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Leonidas", *profile.DisplayName)
}

func TestRegister_Rejects(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "not-an-email", "longenough", nil)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Register(ctx, "a@b.gr", "short", nil)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Register(ctx, "a@b.gr", "longenough", nil)
	require.NoError(t, err)
	_, err = auth.Register(ctx, "a@b.gr", "longenough", nil)
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestLogin_AndResolvePrincipal(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "a@b.gr", "longenough", nil)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "a@b.gr", "wrong-password")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "nobody@b.gr", "longenough")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	token, user, err := auth.Login(ctx, "a@b.gr", "longenough")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	userID, err := auth.ResolvePrincipal(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestResolvePrincipal_Failures(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.ResolvePrincipal(ctx, "")
	assert.ErrorIs(t, err, service.ErrNoAuthHeader)
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)

	_, err = auth.ResolvePrincipal(ctx, "Bearer garbage")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)

	// well-formed token for a user that does not exist
	claims := jwt.MapClaims{"uid": "ghost", "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.ResolvePrincipal(ctx, "Bearer "+forged)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// signed with another secret
	claims = jwt.MapClaims{"uid": "someone", "exp": time.Now().Add(time.Hour).Unix()}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = auth.ResolvePrincipal(ctx, "Bearer "+other)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "a@b.gr", "longenough", nil)
	require.NoError(t, err)
	require.Contains(t, users.users, registered.ID)

	claims := jwt.MapClaims{"uid": registered.ID, "exp": time.Now().Add(-time.Minute).Unix()}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = auth.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
