package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/llm"
	"spartan/fitness-tracker/internal/metrics"
	"spartan/fitness-tracker/internal/recommend"
	"spartan/fitness-tracker/internal/repository"
)

var ErrInvalidPreferences = errors.New("invalid recommendation preferences")

// RecommendationRequest is the body of a recommendation invocation.
type RecommendationRequest struct {
	Preferences *domain.Preferences `json:"preferences,omitempty"`
	Count       int                 `json:"count,omitempty"`
}

type RecommendationService interface {
	// Recommend resolves the principal from authHeader before touching any
	// data, then asks the model for req.Count catalog workouts.
	Recommend(ctx context.Context, authHeader string, req RecommendationRequest) (*domain.RecommendationSet, error)
	// RecommendForUser is Recommend for a caller whose principal is already resolved.
	RecommendForUser(ctx context.Context, userID string, req RecommendationRequest) (*domain.RecommendationSet, error)
}

type recommendationService struct {
	auth            AuthService
	profileRepo     repository.ProfileRepository
	userWorkoutRepo repository.UserWorkoutRepository
	workoutRepo     repository.WorkoutRepository
	completer       llm.Completer
	metrics         *metrics.Manager
}

func NewRecommendationService(
	auth AuthService,
	profileRepo repository.ProfileRepository,
	userWorkoutRepo repository.UserWorkoutRepository,
	workoutRepo repository.WorkoutRepository,
	completer llm.Completer,
	m *metrics.Manager,
) RecommendationService {
	return &recommendationService{
		auth:            auth,
		profileRepo:     profileRepo,
		userWorkoutRepo: userWorkoutRepo,
		workoutRepo:     workoutRepo,
		completer:       completer,
		metrics:         m,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, authHeader string, req RecommendationRequest) (*domain.RecommendationSet, error) {
	// Principal first; nothing is loaded for anonymous callers
	userID, err := s.auth.ResolvePrincipal(ctx, authHeader)
	if err != nil {
		s.countOutcome(metrics.OutcomeError)
		return nil, err
	}
	return s.RecommendForUser(ctx, userID, req)
}

func (s *recommendationService) RecommendForUser(ctx context.Context, userID string, req RecommendationRequest) (set *domain.RecommendationSet, err error) {
	defer func() {
		if err != nil {
			s.countOutcome(metrics.OutcomeError)
		}
	}()

	// 1. Preferences
	if req.Preferences != nil {
		if err := req.Preferences.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
		}
	}
	count := recommend.NormalizeCount(req.Count)
	logger := log.WithFields(log.Fields{"user_id": userID, "count": count})
	logger.Info("generating workout recommendations")

	// 2. Independent reads, each owned by this request
	var (
		profile *domain.Profile
		history []domain.UserWorkout
		catalog []domain.Workout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profileRepo.GetByUserID(gctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		h, err := s.userWorkoutRepo.ListByUser(gctx, userID, recommend.HistoryWindow)
		if err != nil {
			return fmt.Errorf("load workout history: %w", err)
		}
		history = h
		return nil
	})
	g.Go(func() error {
		c, err := s.workoutRepo.List(gctx, repository.WorkoutFilter{})
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		catalog = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Prompt
	stats := recommend.ProfileOrDefault(profile)
	recent := JoinCompletions(history, catalog)
	if len(recent) > recommend.RecentWindow {
		recent = recent[:recommend.RecentWindow]
	}
	prompt := recommend.BuildPrompt(recommend.PromptInput{
		Profile:     stats,
		Recent:      recent,
		Preferences: recommend.ResolvePreferences(req.Preferences),
		Catalog:     catalog,
		Count:       count,
	})

	// 4. Model round trip
	started := time.Now()
	reply, err := s.completer.Complete(ctx, recommend.SystemPrompt, prompt)
	if s.metrics != nil {
		s.metrics.HistLLMDuration.WithLabelValues(s.completer.Provider()).Observe(time.Since(started).Seconds())
	}
	if err != nil {
		logger.WithError(err).Error("language model call failed")
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	// 5. Parse, falling back to the head of the catalog
	outcome := metrics.OutcomeLLM
	picks, err := recommend.Parse(reply)
	if err != nil {
		logger.WithError(err).Warn("failed to parse model reply, using fallback")
		picks = recommend.Fallback(catalog, count)
		outcome = metrics.OutcomeFallback
	}

	// 6. Reconcile against the catalog
	recs, dropped := recommend.Reconcile(picks, catalog, count)
	if dropped > 0 {
		logger.WithField("dropped", dropped).Warn("model returned unknown workout ids")
		if s.metrics != nil {
			s.metrics.CounterDroppedIDs.Add(float64(dropped))
		}
	}
	s.countOutcome(outcome)
	logger.WithField("recommendations", len(recs)).Info("generated workout recommendations")

	return &domain.RecommendationSet{
		Recommendations: recs,
		UserContext: domain.UserContext{
			TotalWorkouts: stats.TotalWorkouts,
			CurrentStreak: stats.CurrentStreak,
			RankLevel:     stats.RankLevel,
		},
	}, nil
}

func (s *recommendationService) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.CounterRecommendations.WithLabelValues(outcome).Inc()
	}
}
