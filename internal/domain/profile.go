package domain

import (
	"errors"
	"time"
)

// ErrInvalidProfileUpdate is returned when an update would break a profile invariant.
var ErrInvalidProfileUpdate = errors.New("invalid profile update")

// Profile carries the gamification counters of a user. The counters are only
// ever changed by explicit profile updates; completions do not increment them.
type Profile struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	UserID           string    `bson:"userId" json:"user_id"`
	DisplayName      *string   `bson:"displayName,omitempty" json:"display_name"`
	CurrentStreak    int       `bson:"currentStreak" json:"current_streak"`       // days, >= 0
	TotalWorkouts    int       `bson:"totalWorkouts" json:"total_workouts"`       // >= 0
	RankLevel        int       `bson:"rankLevel" json:"rank_level"`               // >= 1
	ExperiencePoints int       `bson:"experiencePoints" json:"experience_points"` // >= 0
	CreatedAt        time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updated_at"`
}

// NewProfile returns the starting profile for a freshly registered user.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		RankLevel: 1,
	}
}

// ProfileUpdate is a partial profile; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName      *string `json:"display_name,omitempty"`
	CurrentStreak    *int    `json:"current_streak,omitempty"`
	TotalWorkouts    *int    `json:"total_workouts,omitempty"`
	RankLevel        *int    `json:"rank_level,omitempty"`
	ExperiencePoints *int    `json:"experience_points,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.CurrentStreak == nil && u.TotalWorkouts == nil &&
		u.RankLevel == nil && u.ExperiencePoints == nil
}

// Validate checks the counters stay in their documented ranges.
func (u ProfileUpdate) Validate() error {
	if u.CurrentStreak != nil && *u.CurrentStreak < 0 {
		return ErrInvalidProfileUpdate
	}
	if u.TotalWorkouts != nil && *u.TotalWorkouts < 0 {
		return ErrInvalidProfileUpdate
	}
	if u.RankLevel != nil && *u.RankLevel < 1 {
		return ErrInvalidProfileUpdate
	}
	if u.ExperiencePoints != nil && *u.ExperiencePoints < 0 {
		return ErrInvalidProfileUpdate
	}
	return nil
}

// Apply merges the update into p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.DisplayName != nil {
		name := *u.DisplayName
		p.DisplayName = &name
	}
	if u.CurrentStreak != nil {
		p.CurrentStreak = *u.CurrentStreak
	}
	if u.TotalWorkouts != nil {
		p.TotalWorkouts = *u.TotalWorkouts
	}
	if u.RankLevel != nil {
		p.RankLevel = *u.RankLevel
	}
	if u.ExperiencePoints != nil {
		p.ExperiencePoints = *u.ExperiencePoints
	}
}
