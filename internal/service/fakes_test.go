package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return "", repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.users[u.ID] = &cp
	return u.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	err      error
	calls    int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	cp := *p
	r.profiles[p.UserID] = &cp
	return p.ID, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if p, ok := r.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) Update(_ context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Apply(p)
	cp := *p
	return &cp, nil
}

type fakeWorkoutRepo struct {
	mu        sync.Mutex
	workouts  []domain.Workout // newest first
	err       error
	listCalls int
}

func (r *fakeWorkoutRepo) List(_ context.Context, f repository.WorkoutFilter) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Workout{}
	for _, w := range r.workouts {
		if f.Category == "" || w.Category == f.Category {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id string) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.workouts {
		if r.workouts[i].ID == id {
			w := r.workouts[i]
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) CountByCategory(context.Context) (map[domain.Category]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.Category]int{}
	for _, w := range r.workouts {
		counts[w.Category]++
	}
	return counts, nil
}

func (r *fakeWorkoutRepo) Upsert(_ context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workouts = append([]domain.Workout{*w}, r.workouts...)
	return nil
}

type fakeUserWorkoutRepo struct {
	mu          sync.Mutex
	completions []domain.UserWorkout
	calls       int
}

func (r *fakeUserWorkoutRepo) Create(_ context.Context, c *domain.UserWorkout) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.completions = append(r.completions, *c)
	return c.ID, nil
}

func (r *fakeUserWorkoutRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.UserWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var out []domain.UserWorkout
	for _, c := range r.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeChallengeRepo struct {
	challenges []domain.DailyChallenge
	err        error
}

func (r *fakeChallengeRepo) GetByDate(_ context.Context, date string) (*domain.DailyChallenge, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.challenges {
		if r.challenges[i].ChallengeDate == date {
			c := r.challenges[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeChallengeRepo) GetByID(_ context.Context, id string) (*domain.DailyChallenge, error) {
	for i := range r.challenges {
		if r.challenges[i].ID == id {
			c := r.challenges[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeChallengeRepo) Upsert(_ context.Context, c *domain.DailyChallenge) error {
	r.challenges = append(r.challenges, *c)
	return nil
}

type fakeCompletionRepo struct {
	completions []domain.ChallengeCompletion
}

func (r *fakeCompletionRepo) Create(_ context.Context, c *domain.ChallengeCompletion) (string, error) {
	c.ID = uuid.NewString()
	r.completions = append(r.completions, *c)
	return c.ID, nil
}

func (r *fakeCompletionRepo) ListByUser(_ context.Context, userID string) ([]domain.ChallengeCompletion, error) {
	var out []domain.ChallengeCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (c *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

func (c *fakeCompleter) Provider() string { return "fake" }

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
