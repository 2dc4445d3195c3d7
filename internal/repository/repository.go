package repository

import (
	"context"

	"spartan/fitness-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores authentication principals.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ProfileRepository stores one gamification profile per user.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (string, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error)
}

// WorkoutFilter narrows catalog listings. Zero value lists everything.
type WorkoutFilter struct {
	Category domain.Category
}

// WorkoutRepository reads the workout catalog. Upsert exists for seeding only.
type WorkoutRepository interface {
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error) // newest first
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	CountByCategory(ctx context.Context) (map[domain.Category]int, error)
	Upsert(ctx context.Context, workout *domain.Workout) error
}

// UserWorkoutRepository appends and lists workout completions.
type UserWorkoutRepository interface {
	Create(ctx context.Context, completion *domain.UserWorkout) (string, error)
	// ListByUser returns completions newest first; limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.UserWorkout, error)
}

// DailyChallengeRepository reads daily challenges. Upsert exists for seeding only.
type DailyChallengeRepository interface {
	// GetByDate returns ErrNotFound when no challenge is published for date.
	GetByDate(ctx context.Context, date string) (*domain.DailyChallenge, error)
	GetByID(ctx context.Context, id string) (*domain.DailyChallenge, error)
	Upsert(ctx context.Context, challenge *domain.DailyChallenge) error
}

// ChallengeCompletionRepository appends and lists challenge completions.
type ChallengeCompletionRepository interface {
	Create(ctx context.Context, completion *domain.ChallengeCompletion) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ChallengeCompletion, error)
}
