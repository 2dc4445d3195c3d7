package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/recommend"
	"spartan/fitness-tracker/internal/service"
)

// Recommendations requests personalised workout suggestions, one request
// at a time.
type Recommendations struct {
	observable

	src      DataSource
	notifier Notifier

	mu          sync.RWMutex
	busy        bool
	list        []domain.Recommendation
	userContext *domain.UserContext
}

func NewRecommendations(src DataSource, notifier Notifier) *Recommendations {
	return &Recommendations{src: src, notifier: notifier}
}

// Busy reports whether a request is in flight.
func (r *Recommendations) Busy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.busy
}

// List returns the last successful recommendations.
func (r *Recommendations) List() []domain.Recommendation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Recommendation(nil), r.list...)
}

// UserContext returns the profile summary of the last successful request.
func (r *Recommendations) UserContext() *domain.UserContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.userContext == nil {
		return nil
	}
	cp := *r.userContext
	return &cp
}

// Request asks for count recommendations (DefaultCount when count <= 0).
// It issues exactly one call and replaces the list on success.
func (r *Recommendations) Request(ctx context.Context, prefs domain.Preferences, count int) (*domain.RecommendationSet, error) {
	if !r.src.Authenticated() {
		return nil, ErrRedirectToAuth
	}
	if err := prefs.Validate(); err != nil {
		err = fmt.Errorf("%w: %v", service.ErrInvalidPreferences, err)
		r.notifier.Notify(failure("Error", err))
		return nil, err
	}
	if count <= 0 {
		count = recommend.DefaultCount
	}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.busy = true
	r.mu.Unlock()
	r.changed()

	defer func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
		r.changed()
	}()

	set, err := r.src.Recommend(ctx, service.RecommendationRequest{Preferences: &prefs, Count: count})
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			log.WithError(err).Error("error getting workout recommendations")
			r.notifier.Notify(Notice{
				Title:       "Error",
				Description: "Failed to get workout recommendations. Please try again.",
				Destructive: true,
			})
		} else {
			log.WithError(err).Error("error calling workout recommendations function")
			r.notifier.Notify(Notice{
				Title:       "Error",
				Description: "Something went wrong. Please try again.",
				Destructive: true,
			})
		}
		return nil, &DataAccessError{Op: "request recommendations", Err: err}
	}

	r.mu.Lock()
	r.list = set.Recommendations
	userContext := set.UserContext
	r.userContext = &userContext
	r.mu.Unlock()

	r.notifier.Notify(Notice{
		Title:       "Recommendations Ready!",
		Description: fmt.Sprintf("Generated %d personalized workout recommendations.", len(set.Recommendations)),
	})
	return set, nil
}
