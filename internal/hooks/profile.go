package hooks

import (
	"context"
	"sync"

	"spartan/fitness-tracker/internal/domain"
)

// Profile tracks the signed-in user's profile.
type Profile struct {
	observable

	src      DataSource
	notifier Notifier

	mu      sync.RWMutex
	profile *domain.Profile
	loading bool
}

func NewProfile(src DataSource, notifier Notifier) *Profile {
	return &Profile{src: src, notifier: notifier, loading: true}
}

// Snapshot returns a copy of the current profile, or nil.
func (p *Profile) Snapshot() *domain.Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.profile == nil {
		return nil
	}
	cp := *p.profile
	return &cp
}

func (p *Profile) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Stats renders the progress overview of the current snapshot.
func (p *Profile) Stats() domain.Stats {
	return domain.ComputeStats(p.Snapshot())
}

// Fetch reloads the profile. Signed-out users have no profile.
func (p *Profile) Fetch(ctx context.Context) error {
	if !p.src.Authenticated() {
		p.set(nil)
		return nil
	}

	profile, err := p.src.FetchProfile(ctx)
	if err != nil {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
		p.changed()

		p.notifier.Notify(failure("Error loading profile", err))
		return &DataAccessError{Op: "fetch profile", Err: err}
	}
	p.set(profile)
	return nil
}

// Update saves update and merges it into the local snapshot.
func (p *Profile) Update(ctx context.Context, update domain.ProfileUpdate) error {
	if !p.src.Authenticated() {
		err := &NotAuthenticatedError{Op: "update profile", RedirectTo: AuthEntryPoint}
		p.notifier.Notify(failure("Error updating profile", err))
		return err
	}

	if _, err := p.src.UpdateProfile(ctx, update); err != nil {
		p.notifier.Notify(failure("Error updating profile", err))
		return &DataAccessError{Op: "update profile", Err: err}
	}

	p.mu.Lock()
	if p.profile != nil {
		update.Apply(p.profile)
	}
	p.mu.Unlock()
	p.changed()

	p.notifier.Notify(Notice{Title: "Profile Updated", Description: "Your warrior profile has been updated!"})
	return nil
}

func (p *Profile) set(profile *domain.Profile) {
	p.mu.Lock()
	p.profile = profile
	p.loading = false
	p.mu.Unlock()
	p.changed()
}
