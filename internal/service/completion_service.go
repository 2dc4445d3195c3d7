package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
)

var ErrInvalidCompletion = errors.New("invalid completion")

// WorkoutCompletion holds the optional fields of a workout completion.
type WorkoutCompletion struct {
	WorkoutID       string
	DurationMinutes *int
	Notes           *string
}

// ChallengeCompletion holds the optional fields of a challenge completion.
type ChallengeCompletion struct {
	ChallengeID           string
	CompletionTimeSeconds *int
	RepsCompleted         *int
}

// CompletionService appends and lists what a user has finished. It never
// touches the profile counters.
type CompletionService interface {
	RecordWorkout(ctx context.Context, userID string, in WorkoutCompletion) (*domain.UserWorkout, error)
	// ListWorkouts returns completions joined with catalog metadata, newest
	// first; limit <= 0 means all.
	ListWorkouts(ctx context.Context, userID string, limit int) ([]domain.CompletedWorkout, error)
	RecordChallenge(ctx context.Context, userID string, in ChallengeCompletion) (*domain.ChallengeCompletion, error)
	ListChallenges(ctx context.Context, userID string) ([]domain.ChallengeCompletion, error)
}

type completionService struct {
	userWorkoutRepo repository.UserWorkoutRepository
	completionRepo  repository.ChallengeCompletionRepository
	workoutRepo     repository.WorkoutRepository
	challengeRepo   repository.DailyChallengeRepository
	now             func() time.Time
}

func NewCompletionService(
	userWorkoutRepo repository.UserWorkoutRepository,
	completionRepo repository.ChallengeCompletionRepository,
	workoutRepo repository.WorkoutRepository,
	challengeRepo repository.DailyChallengeRepository,
) CompletionService {
	return &completionService{
		userWorkoutRepo: userWorkoutRepo,
		completionRepo:  completionRepo,
		workoutRepo:     workoutRepo,
		challengeRepo:   challengeRepo,
		now:             time.Now,
	}
}

func (s *completionService) RecordWorkout(ctx context.Context, userID string, in WorkoutCompletion) (*domain.UserWorkout, error) {
	if in.WorkoutID == "" {
		return nil, fmt.Errorf("%w: workout_id is required", ErrInvalidCompletion)
	}
	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration_minutes must not be negative", ErrInvalidCompletion)
	}
	if _, err := s.workoutRepo.GetByID(ctx, in.WorkoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	completion := &domain.UserWorkout{
		UserID:          userID,
		WorkoutID:       in.WorkoutID,
		CompletedAt:     s.now().UTC(),
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	id, err := s.userWorkoutRepo.Create(ctx, completion)
	if err != nil {
		return nil, err
	}
	completion.ID = id

	log.WithFields(log.Fields{"user_id": userID, "workout_id": in.WorkoutID}).Info("workout completed")
	return completion, nil
}

func (s *completionService) ListWorkouts(ctx context.Context, userID string, limit int) ([]domain.CompletedWorkout, error) {
	completions, err := s.userWorkoutRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(completions) == 0 {
		return []domain.CompletedWorkout{}, nil
	}
	catalog, err := s.workoutRepo.List(ctx, repository.WorkoutFilter{})
	if err != nil {
		return nil, err
	}
	return JoinCompletions(completions, catalog), nil
}

func (s *completionService) RecordChallenge(ctx context.Context, userID string, in ChallengeCompletion) (*domain.ChallengeCompletion, error) {
	if in.ChallengeID == "" {
		return nil, fmt.Errorf("%w: challenge_id is required", ErrInvalidCompletion)
	}
	if (in.CompletionTimeSeconds != nil && *in.CompletionTimeSeconds < 0) || (in.RepsCompleted != nil && *in.RepsCompleted < 0) {
		return nil, fmt.Errorf("%w: counters must not be negative", ErrInvalidCompletion)
	}
	if _, err := s.challengeRepo.GetByID(ctx, in.ChallengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	completion := &domain.ChallengeCompletion{
		UserID:                userID,
		ChallengeID:           in.ChallengeID,
		CompletedAt:           s.now().UTC(),
		CompletionTimeSeconds: in.CompletionTimeSeconds,
		RepsCompleted:         in.RepsCompleted,
	}
	id, err := s.completionRepo.Create(ctx, completion)
	if err != nil {
		return nil, err
	}
	completion.ID = id

	log.WithFields(log.Fields{"user_id": userID, "challenge_id": in.ChallengeID}).Info("challenge conquered")
	return completion, nil
}

func (s *completionService) ListChallenges(ctx context.Context, userID string) ([]domain.ChallengeCompletion, error) {
	completions, err := s.completionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if completions == nil {
		completions = []domain.ChallengeCompletion{}
	}
	return completions, nil
}

// JoinCompletions attaches catalog metadata to each completion, keeping order.
func JoinCompletions(completions []domain.UserWorkout, catalog []domain.Workout) []domain.CompletedWorkout {
	byID := make(map[string]*domain.Workout, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	out := make([]domain.CompletedWorkout, 0, len(completions))
	for _, c := range completions {
		out = append(out, domain.CompletedWorkout{UserWorkout: c, Workout: byID[c.WorkoutID]})
	}
	return out
}
