package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
	"spartan/fitness-tracker/internal/storage"
)

var (
	ErrWorkoutNotFound    = errors.New("workout not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrInvalidCategory    = errors.New("invalid workout category")
	ErrNoMedia            = errors.New("workout has no demo media")
	ErrStorageUnavailable = errors.New("media storage is not configured")
)

// WorkoutService serves the read-only catalog and the daily challenge.
type WorkoutService interface {
	// ListWorkouts returns the catalog newest first; an empty category lists all.
	ListWorkouts(ctx context.Context, category string) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID string) (*domain.Workout, error)
	// CategoryCounts returns one entry per category in enum order, zeros included.
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
	MediaURL(ctx context.Context, workoutID string) (string, error)
	// TodayChallenge returns nil, nil when nothing is published for today.
	TodayChallenge(ctx context.Context) (*domain.DailyChallenge, error)
}

type workoutService struct {
	workoutRepo   repository.WorkoutRepository
	challengeRepo repository.DailyChallengeRepository
	media         storage.MediaStore // nil when storage is not configured
	now           func() time.Time
}

// NewWorkoutService creates the catalog service. media may be nil; now
// defaults to time.Now.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	challengeRepo repository.DailyChallengeRepository,
	media storage.MediaStore,
	now func() time.Time,
) WorkoutService {
	if now == nil {
		now = time.Now
	}
	return &workoutService{
		workoutRepo:   workoutRepo,
		challengeRepo: challengeRepo,
		media:         media,
		now:           now,
	}
}

func (s *workoutService) ListWorkouts(ctx context.Context, category string) ([]domain.Workout, error) {
	filter := repository.WorkoutFilter{}
	if category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
		}
		filter.Category = c
	}
	return s.workoutRepo.List(ctx, filter)
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.workoutRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryCount, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, domain.CategoryCount{Category: c, Workouts: counts[c]})
	}
	return out, nil
}

func (s *workoutService) MediaURL(ctx context.Context, workoutID string) (string, error) {
	workout, err := s.GetWorkout(ctx, workoutID)
	if err != nil {
		return "", err
	}
	if !workout.HasMedia() {
		return "", ErrNoMedia
	}
	if s.media == nil {
		return "", ErrStorageUnavailable
	}
	return s.media.PresignDownloadURL(ctx, workout.MediaKey, storage.DefaultLinkExpiry)
}

func (s *workoutService) TodayChallenge(ctx context.Context) (*domain.DailyChallenge, error) {
	challenge, err := s.challengeRepo.GetByDate(ctx, domain.ChallengeDate(s.now().UTC()))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return challenge, nil
}
