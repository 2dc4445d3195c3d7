package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"spartan/fitness-tracker/internal/domain"
)

const progressWidth = 20

func progressBar(pct float64) string {
	filled := int(domain.ClampProgress(pct) / 100 * progressWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", progressWidth-filled) + "]"
}

func renderStats(w io.Writer, stats domain.Stats) {
	fmt.Fprintf(w, "%s\n\n", strings.ToUpper(stats.Rank))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, card := range stats.Cards {
		fmt.Fprintf(tw, "%s\t%s %s\t%s %3.0f%%\n", card.Title, card.Value, card.Unit, progressBar(card.Progress), card.Progress)
	}
	_ = tw.Flush()
}

func renderProfile(w io.Writer, p *domain.Profile) {
	name := "(unnamed warrior)"
	if p.DisplayName != nil && *p.DisplayName != "" {
		name = *p.DisplayName
	}
	fmt.Fprintf(w, "%s, %s (level %d)\n", name, domain.RankName(p.RankLevel), p.RankLevel)
	fmt.Fprintf(w, "streak %d days, %d workouts, %d XP\n", p.CurrentStreak, p.TotalWorkouts, p.ExperiencePoints)
}

func minutes(d *int) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d min", *d)
}

func renderWorkouts(w io.Writer, workouts []domain.Workout, only domain.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tDURATION")
	shown := 0
	for _, wk := range workouts {
		if only != "" && wk.Category != only {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", wk.ID, wk.Title, wk.Category, wk.Difficulty, minutes(wk.DurationMinutes))
		shown++
	}
	_ = tw.Flush()
	if shown == 0 {
		fmt.Fprintln(w, "no workouts found")
	}
}

func renderChallenge(w io.Writer, c *domain.DailyChallenge) {
	if c == nil {
		fmt.Fprintln(w, "No challenge today. Rest, warrior.")
		return
	}
	fmt.Fprintf(w, "%s  [%s]  %s\n", c.Title, c.Difficulty, c.ChallengeDate)
	if c.Description != nil {
		fmt.Fprintln(w, *c.Description)
	}
	if c.TargetReps != nil {
		fmt.Fprintf(w, "target: %d reps\n", *c.TargetReps)
	}
	if c.TargetDuration != nil {
		fmt.Fprintf(w, "target: %d seconds\n", *c.TargetDuration)
	}
	fmt.Fprintf(w, "id: %s\n", c.ID)
}

func renderHistory(w io.Writer, completed []domain.CompletedWorkout) {
	if len(completed) == 0 {
		fmt.Fprintln(w, "no completed workouts yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPLETED\tWORKOUT\tDURATION")
	for _, c := range completed {
		title := c.WorkoutID
		if c.Workout != nil {
			title = c.Workout.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.CompletedAt.Local().Format("2006-01-02 15:04"), title, minutes(c.DurationMinutes))
	}
	_ = tw.Flush()
}

func renderRecommendations(w io.Writer, set *domain.RecommendationSet) {
	for i, r := range set.Recommendations {
		fmt.Fprintf(w, "%d. %s (%s, %s, %s) priority %d\n", i+1, r.Title, r.Category, r.Difficulty, minutes(r.DurationMinutes), r.Priority)
		fmt.Fprintf(w, "   %s\n", r.Reason)
		fmt.Fprintf(w, "   id: %s\n", r.ID)
	}
	uc := set.UserContext
	fmt.Fprintf(w, "\nbased on %d workouts, %d day streak, rank level %d\n", uc.TotalWorkouts, uc.CurrentStreak, uc.RankLevel)
}
