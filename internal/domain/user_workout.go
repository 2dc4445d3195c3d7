package domain

import "time"

// UserWorkout records that a user completed a catalog workout. Append-only.
type UserWorkout struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"userId" json:"user_id"`
	WorkoutID       string    `bson:"workoutId" json:"workout_id"`
	CompletedAt     time.Time `bson:"completedAt" json:"completed_at"`
	DurationMinutes *int      `bson:"durationMinutes,omitempty" json:"duration_minutes"`
	Notes           *string   `bson:"notes,omitempty" json:"notes"`
}

// CompletedWorkout is a completion joined with the catalog metadata of its
// workout. Workout is nil when the catalog entry no longer exists.
type CompletedWorkout struct {
	UserWorkout
	Workout *Workout `bson:"-" json:"workout,omitempty"`
}
