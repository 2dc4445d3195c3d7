// Package seed loads the workout catalog and daily challenges from a YAML
// file into the store. The catalog is owned externally; seeding exists for
// local and test deployments.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
)

// TodayAlias may be used as challenge_date to publish a challenge for the
// day the seed is applied.
const TodayAlias = "today"

// File is the on-disk layout of a seed file.
type File struct {
	Workouts        []domain.Workout        `yaml:"workouts"`
	DailyChallenges []domain.DailyChallenge `yaml:"daily_challenges"`
}

// Result counts what Apply wrote.
type Result struct {
	Workouts   int
	Challenges int
}

// Parse decodes and validates a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

func (f *File) validate() error {
	seen := make(map[string]bool, len(f.Workouts))
	for i, w := range f.Workouts {
		if w.ID == "" || w.Title == "" {
			return fmt.Errorf("workout #%d: id and title are required", i+1)
		}
		if seen[w.ID] {
			return fmt.Errorf("workout %q: duplicate id", w.ID)
		}
		seen[w.ID] = true
		if _, err := domain.ParseCategory(string(w.Category)); err != nil {
			return fmt.Errorf("workout %q: %w", w.ID, err)
		}
		if _, err := domain.ParseDifficulty(string(w.Difficulty)); err != nil {
			return fmt.Errorf("workout %q: %w", w.ID, err)
		}
		if w.DurationMinutes != nil && *w.DurationMinutes <= 0 {
			return fmt.Errorf("workout %q: duration_minutes must be positive", w.ID)
		}
	}

	dates := make(map[string]string, len(f.DailyChallenges))
	for i, c := range f.DailyChallenges {
		if c.ID == "" || c.Title == "" {
			return fmt.Errorf("daily challenge #%d: id and title are required", i+1)
		}
		if _, err := domain.ParseDifficulty(string(c.Difficulty)); err != nil {
			return fmt.Errorf("daily challenge %q: %w", c.ID, err)
		}
		if c.ChallengeDate != TodayAlias {
			if _, err := time.Parse(domain.ChallengeDateLayout, c.ChallengeDate); err != nil {
				return fmt.Errorf("daily challenge %q: challenge_date must be YYYY-MM-DD or %q", c.ID, TodayAlias)
			}
		}
		if other, ok := dates[c.ChallengeDate]; ok {
			return fmt.Errorf("daily challenges %q and %q share date %s", other, c.ID, c.ChallengeDate)
		}
		dates[c.ChallengeDate] = c.ID
	}
	return nil
}

// Apply upserts every entry of f. now resolves the today alias.
func Apply(
	ctx context.Context,
	f *File,
	workouts repository.WorkoutRepository,
	challenges repository.DailyChallengeRepository,
	now func() time.Time,
) (Result, error) {
	var res Result
	for i := range f.Workouts {
		w := f.Workouts[i]
		if err := workouts.Upsert(ctx, &w); err != nil {
			return res, fmt.Errorf("upsert workout %q: %w", w.ID, err)
		}
		res.Workouts++
	}

	today := domain.ChallengeDate(now().UTC())
	for i := range f.DailyChallenges {
		c := f.DailyChallenges[i]
		if c.ChallengeDate == TodayAlias {
			c.ChallengeDate = today
		}
		if err := challenges.Upsert(ctx, &c); err != nil {
			return res, fmt.Errorf("upsert daily challenge %q: %w", c.ID, err)
		}
		res.Challenges++
	}

	log.WithFields(log.Fields{
		"workouts":   res.Workouts,
		"challenges": res.Challenges,
	}).Info("catalog seeded")
	return res, nil
}

// LoadAndApply is Load followed by Apply. An empty path is a no-op.
func LoadAndApply(
	ctx context.Context,
	path string,
	workouts repository.WorkoutRepository,
	challenges repository.DailyChallengeRepository,
) (Result, error) {
	if path == "" {
		return Result{}, nil
	}
	f, err := Load(path)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, f, workouts, challenges, time.Now)
}
