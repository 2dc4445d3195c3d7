package domain

import "time"

// ChallengeCompletion records that a user finished a daily challenge. Append-only.
type ChallengeCompletion struct {
	ID                    string    `bson:"_id,omitempty" json:"id"`
	UserID                string    `bson:"userId" json:"user_id"`
	ChallengeID           string    `bson:"challengeId" json:"challenge_id"`
	CompletedAt           time.Time `bson:"completedAt" json:"completed_at"`
	CompletionTimeSeconds *int      `bson:"completionTimeSeconds,omitempty" json:"completion_time_seconds"`
	RepsCompleted         *int      `bson:"repsCompleted,omitempty" json:"reps_completed"`
}
