// internal/domain/daily_challenge.go
package domain

import "time"

// ChallengeDateLayout is the calendar-day format of DailyChallenge.ChallengeDate.
const ChallengeDateLayout = "2006-01-02"

// DailyChallenge is the single challenge published for one calendar day.
type DailyChallenge struct {
	ID             string     `bson:"_id,omitempty" json:"id" yaml:"id"`
	Title          string     `bson:"title" json:"title" yaml:"title"`
	Description    *string    `bson:"description,omitempty" json:"description" yaml:"description,omitempty"`
	TargetReps     *int       `bson:"targetReps,omitempty" json:"target_reps" yaml:"target_reps,omitempty"`
	TargetDuration *int       `bson:"targetDuration,omitempty" json:"target_duration" yaml:"target_duration,omitempty"`
	Difficulty     Difficulty `bson:"difficulty" json:"difficulty" yaml:"difficulty"`
	ChallengeDate  string     `bson:"challengeDate" json:"challenge_date" yaml:"challenge_date"` // YYYY-MM-DD, unique
	CreatedAt      time.Time  `bson:"createdAt" json:"created_at" yaml:"created_at,omitempty"`
}

// ChallengeDate formats t as the calendar day used to look up challenges.
func ChallengeDate(t time.Time) string {
	return t.Format(ChallengeDateLayout)
}
