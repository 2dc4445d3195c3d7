package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/hooks"
	"spartan/fitness-tracker/internal/service"
)

var (
	email       string
	password    string
	displayName string

	category string

	durationMinutes int
	notes           string
	seconds         int
	reps            int

	prefDifficulty string
	prefDuration   int
	prefCategories []string
	prefGoals      string
	count          int

	setStreak int
	setTotal  int
	setRank   int
	setXP     int
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := current.api.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := current.store.SaveToken(session.Token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.store.SaveToken("")
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var name *string
		if displayName != "" {
			name = &displayName
		}
		if err := current.api.Register(cmd.Context(), email, password, name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account created, run `spartan login` to sign in")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak, rank, workouts and experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.profile.Fetch(cmd.Context()); err != nil {
			return err
		}
		renderStats(cmd.OutOrStdout(), current.profile.Stats())
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.profile.Fetch(cmd.Context()); err != nil {
			return err
		}
		p := current.profile.Snapshot()
		if p == nil {
			return explain(&hooks.NotAuthenticatedError{Op: "profile", RedirectTo: hooks.AuthEntryPoint})
		}
		renderProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		var update domain.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("display-name") {
			update.DisplayName = &displayName
		}
		if flags.Changed("streak") {
			update.CurrentStreak = &setStreak
		}
		if flags.Changed("total-workouts") {
			update.TotalWorkouts = &setTotal
		}
		if flags.Changed("rank") {
			update.RankLevel = &setRank
		}
		if flags.Changed("xp") {
			update.ExperiencePoints = &setXP
		}
		if update.IsEmpty() {
			return errors.New("nothing to update")
		}

		ctx := cmd.Context()
		if err := current.profile.Fetch(ctx); err != nil {
			return err
		}
		return explain(current.profile.Update(ctx, update))
	},
}

var workoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "List the workout catalog, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter domain.Category
		if category != "" {
			c, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			filter = c
		}
		if err := current.workouts.FetchCatalog(cmd.Context()); err != nil {
			return err
		}
		renderWorkouts(cmd.OutOrStdout(), current.workouts.Catalog(), filter)
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.workouts.FetchToday(cmd.Context()); err != nil {
			return err
		}
		renderChallenge(cmd.OutOrStdout(), current.workouts.Today())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your completed workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.api.Authenticated() {
			return explain(&hooks.NotAuthenticatedError{Op: "history", RedirectTo: hooks.AuthEntryPoint})
		}
		if err := current.workouts.FetchCompleted(cmd.Context()); err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), current.workouts.Completed())
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record a completed workout or challenge",
}

var completeWorkoutCmd = &cobra.Command{
	Use:   "workout [workout-id]",
	Short: "Record a completed workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.WorkoutCompletion{WorkoutID: args[0]}
		if cmd.Flags().Changed("duration") {
			in.DurationMinutes = &durationMinutes
		}
		if cmd.Flags().Changed("notes") {
			in.Notes = &notes
		}
		return explain(current.workouts.CompleteWorkout(cmd.Context(), in))
	},
}

var completeChallengeCmd = &cobra.Command{
	Use:   "challenge [challenge-id]",
	Short: "Record a completed daily challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.ChallengeCompletion{ChallengeID: args[0]}
		if cmd.Flags().Changed("seconds") {
			in.CompletionTimeSeconds = &seconds
		}
		if cmd.Flags().Changed("reps") {
			in.RepsCompleted = &reps
		}
		return explain(current.workouts.CompleteChallenge(cmd.Context(), in))
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Ask for personalised workout recommendations",
	Long: `Asks the server to pick workouts from the catalog for you, based on
your profile, your recent workouts and the preferences given here.

Example:
  spartan recommend --difficulty intermediate --category combat --goals "build endurance"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefs domain.Preferences
		flags := cmd.Flags()
		if flags.Changed("difficulty") {
			d := domain.Difficulty(prefDifficulty)
			prefs.Difficulty = &d
		}
		if flags.Changed("duration") {
			prefs.Duration = &prefDuration
		}
		for _, c := range prefCategories {
			prefs.Categories = append(prefs.Categories, domain.Category(c))
		}
		if flags.Changed("goals") {
			prefs.Goals = &prefGoals
		}

		set, err := current.recommendations.Request(cmd.Context(), prefs, count)
		if err != nil {
			return explain(err)
		}
		renderRecommendations(cmd.OutOrStdout(), set)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&email, "email", "", "account email")
		c.Flags().StringVar(&password, "password", "", "account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVar(&displayName, "display-name", "", "warrior name")

	profileSetCmd.Flags().StringVar(&displayName, "display-name", "", "warrior name")
	profileSetCmd.Flags().IntVar(&setStreak, "streak", 0, "current streak in days")
	profileSetCmd.Flags().IntVar(&setTotal, "total-workouts", 0, "total workouts")
	profileSetCmd.Flags().IntVar(&setRank, "rank", 1, "rank level")
	profileSetCmd.Flags().IntVar(&setXP, "xp", 0, "experience points")
	profileCmd.AddCommand(profileSetCmd)

	workoutsCmd.Flags().StringVar(&category, "category", "", "only show this category")

	completeWorkoutCmd.Flags().IntVar(&durationMinutes, "duration", 0, "minutes spent")
	completeWorkoutCmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	completeChallengeCmd.Flags().IntVar(&seconds, "seconds", 0, "completion time in seconds")
	completeChallengeCmd.Flags().IntVar(&reps, "reps", 0, "repetitions completed")
	completeCmd.AddCommand(completeWorkoutCmd, completeChallengeCmd)

	recommendCmd.Flags().StringVar(&prefDifficulty, "difficulty", "", "beginner, intermediate or advanced")
	recommendCmd.Flags().IntVar(&prefDuration, "duration", 0, "preferred duration in minutes")
	recommendCmd.Flags().StringSliceVar(&prefCategories, "category", nil, "preferred categories (repeatable)")
	recommendCmd.Flags().StringVar(&prefGoals, "goals", "", "what you are training for")
	recommendCmd.Flags().IntVar(&count, "count", 3, "how many recommendations")
}
