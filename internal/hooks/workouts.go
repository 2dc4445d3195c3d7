package hooks

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/service"
)

// Workouts tracks the catalog, today's challenge and the signed-in user's
// completions.
type Workouts struct {
	observable

	src      DataSource
	notifier Notifier

	mu                   sync.RWMutex
	catalog              []domain.Workout
	today                *domain.DailyChallenge
	completed            []domain.CompletedWorkout
	challengeCompletions []domain.ChallengeCompletion
	loading              bool
}

func NewWorkouts(src DataSource, notifier Notifier) *Workouts {
	return &Workouts{src: src, notifier: notifier, loading: true}
}

// Catalog returns the workouts, newest first.
func (w *Workouts) Catalog() []domain.Workout {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Workout(nil), w.catalog...)
}

// Today returns today's challenge, or nil when none is published.
func (w *Workouts) Today() *domain.DailyChallenge {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.today == nil {
		return nil
	}
	cp := *w.today
	return &cp
}

// Completed returns the user's workout completions, newest first.
func (w *Workouts) Completed() []domain.CompletedWorkout {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.CompletedWorkout(nil), w.completed...)
}

func (w *Workouts) ChallengeCompletions() []domain.ChallengeCompletion {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.ChallengeCompletion(nil), w.challengeCompletions...)
}

// Loading is true until the first catalog fetch finishes.
func (w *Workouts) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

// Refetch reloads every collection concurrently and returns the combined
// failures. The reads are independent; one failing leaves the others intact.
func (w *Workouts) Refetch(ctx context.Context) error {
	fetches := []func(context.Context) error{
		w.FetchCatalog,
		w.FetchToday,
		w.FetchCompleted,
		w.FetchChallengeCompletions,
	}
	errs := make([]error, len(fetches))

	var wg sync.WaitGroup
	for i, fetch := range fetches {
		wg.Add(1)
		go func(i int, fetch func(context.Context) error) {
			defer wg.Done()
			errs[i] = fetch(ctx)
		}(i, fetch)
	}
	wg.Wait()

	return multierr.Combine(errs...)
}

// FetchCatalog replaces the catalog. On failure the previous catalog is kept.
func (w *Workouts) FetchCatalog(ctx context.Context) error {
	catalog, err := w.src.FetchWorkouts(ctx)

	w.mu.Lock()
	if err == nil {
		w.catalog = catalog
	}
	w.loading = false
	w.mu.Unlock()
	w.changed()

	if err != nil {
		w.notifier.Notify(failure("Error loading workouts", err))
		return &DataAccessError{Op: "fetch workouts", Err: err}
	}
	return nil
}

// FetchToday loads the challenge published for the current date.
func (w *Workouts) FetchToday(ctx context.Context) error {
	challenge, err := w.src.FetchTodayChallenge(ctx)
	if err != nil {
		w.notifier.Notify(failure("Error loading daily challenge", err))
		return &DataAccessError{Op: "fetch daily challenge", Err: err}
	}

	w.mu.Lock()
	w.today = challenge
	w.mu.Unlock()
	w.changed()
	return nil
}

// FetchCompleted loads the user's workout completions. Failures are logged
// only, since signed-out visitors routinely hit them.
func (w *Workouts) FetchCompleted(ctx context.Context) error {
	if !w.src.Authenticated() {
		w.setCompleted(nil)
		return nil
	}

	completed, err := w.src.FetchCompletedWorkouts(ctx)
	if err != nil {
		log.WithError(err).Debug("user workouts fetch failed")
		return &DataAccessError{Op: "fetch user workouts", Err: err}
	}
	w.setCompleted(completed)
	return nil
}

// FetchChallengeCompletions behaves like FetchCompleted for challenges.
func (w *Workouts) FetchChallengeCompletions(ctx context.Context) error {
	if !w.src.Authenticated() {
		w.setChallengeCompletions(nil)
		return nil
	}

	completions, err := w.src.FetchChallengeCompletions(ctx)
	if err != nil {
		log.WithError(err).Debug("challenge completions fetch failed")
		return &DataAccessError{Op: "fetch challenge completions", Err: err}
	}
	w.setChallengeCompletions(completions)
	return nil
}

// CompleteWorkout records a completion and then refetches the user's
// completions.
func (w *Workouts) CompleteWorkout(ctx context.Context, in service.WorkoutCompletion) error {
	const title = "Error completing workout"
	if !w.src.Authenticated() {
		err := &NotAuthenticatedError{Op: "complete workout", RedirectTo: AuthEntryPoint}
		w.notifier.Notify(failure(title, err))
		return err
	}

	if _, err := w.src.CompleteWorkout(ctx, in); err != nil {
		w.notifier.Notify(failure(title, err))
		return &DataAccessError{Op: "complete workout", Err: err}
	}
	w.notifier.Notify(Notice{Title: "Workout Completed!", Description: "Your victory has been recorded, warrior!"})

	// a failed refetch is logged by FetchCompleted; the completion itself stands
	_ = w.FetchCompleted(ctx)
	return nil
}

// CompleteChallenge records a challenge completion and then refetches the
// user's challenge completions.
func (w *Workouts) CompleteChallenge(ctx context.Context, in service.ChallengeCompletion) error {
	const title = "Error completing challenge"
	if !w.src.Authenticated() {
		err := &NotAuthenticatedError{Op: "complete challenge", RedirectTo: AuthEntryPoint}
		w.notifier.Notify(failure(title, err))
		return err
	}

	if _, err := w.src.CompleteChallenge(ctx, in); err != nil {
		w.notifier.Notify(failure(title, err))
		return &DataAccessError{Op: "complete challenge", Err: err}
	}
	w.notifier.Notify(Notice{Title: "Challenge Conquered!", Description: "You've proven your Spartan strength!"})

	_ = w.FetchChallengeCompletions(ctx)
	return nil
}

func (w *Workouts) setCompleted(completed []domain.CompletedWorkout) {
	w.mu.Lock()
	w.completed = completed
	w.mu.Unlock()
	w.changed()
}

func (w *Workouts) setChallengeCompletions(completions []domain.ChallengeCompletion) {
	w.mu.Lock()
	w.challengeCompletions = completions
	w.mu.Unlock()
	w.changed()
}
