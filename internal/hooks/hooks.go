// Package hooks holds client-side, observable state for profiles, the
// workout catalog, completions and recommendations. Every failure is
// reported through a Notifier and returned; nothing panics.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/service"
)

// AuthEntryPoint is where unauthenticated users are sent.
const AuthEntryPoint = "/auth"

var (
	// ErrRedirectToAuth is returned when an action needs a principal and
	// none is signed in. Callers send the user to AuthEntryPoint.
	ErrRedirectToAuth = &NotAuthenticatedError{Op: "recommend", RedirectTo: AuthEntryPoint}
	// ErrBusy is returned when a recommendation request is already in flight.
	ErrBusy = errors.New("a recommendation request is already in progress")
)

// NotAuthenticatedError reports an operation that needs a signed-in user.
type NotAuthenticatedError struct {
	Op         string
	RedirectTo string
}

func (e *NotAuthenticatedError) Error() string {
	return "user not authenticated"
}

// DataAccessError wraps a failed read or write against the data source.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-success answer from the backend.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// DataSource is what the hooks read from and write to.
type DataSource interface {
	// Authenticated reports whether a principal is signed in.
	Authenticated() bool

	FetchProfile(ctx context.Context) (*domain.Profile, error) // nil, nil when absent
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error)

	FetchWorkouts(ctx context.Context) ([]domain.Workout, error)
	FetchTodayChallenge(ctx context.Context) (*domain.DailyChallenge, error) // nil, nil when absent
	FetchCompletedWorkouts(ctx context.Context) ([]domain.CompletedWorkout, error)
	FetchChallengeCompletions(ctx context.Context) ([]domain.ChallengeCompletion, error)

	CompleteWorkout(ctx context.Context, in service.WorkoutCompletion) (*domain.UserWorkout, error)
	CompleteChallenge(ctx context.Context, in service.ChallengeCompletion) (*domain.ChallengeCompletion, error)

	Recommend(ctx context.Context, req service.RecommendationRequest) (*domain.RecommendationSet, error)
}

// Notice is a short, user-facing message.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier delivers notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to the log.
func LogNotifier() Notifier {
	return NotifierFunc(func(n Notice) {
		entry := log.WithField("notice", n.Title)
		if n.Destructive {
			entry.Warn(n.Description)
			return
		}
		entry.Info(n.Description)
	})
}

func failure(title string, err error) Notice {
	return Notice{Title: title, Description: err.Error(), Destructive: true}
}

// observable fans change events out to subscribers.
type observable struct {
	subMu  sync.Mutex
	nextID int
	subs   map[int]func()
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (o *observable) Subscribe(fn func()) (unsubscribe func()) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	if o.subs == nil {
		o.subs = make(map[int]func())
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	return func() {
		o.subMu.Lock()
		defer o.subMu.Unlock()
		delete(o.subs, id)
	}
}

// changed must be called without holding the state lock.
func (o *observable) changed() {
	o.subMu.Lock()
	fns := make([]func(), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
