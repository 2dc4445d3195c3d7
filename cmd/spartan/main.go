package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"spartan/fitness-tracker/internal/client"
	"spartan/fitness-tracker/internal/config"
	"spartan/fitness-tracker/internal/hooks"
	"spartan/fitness-tracker/internal/logging"
)

var (
	// Global flags
	configFile string
	apiURL     string
	verbose    bool
)

// app is what every command works against. It is built in PersistentPreRunE.
type app struct {
	cfg   config.ClientConfig
	store *config.ClientStore
	api   *client.Client

	profile         *hooks.Profile
	workouts        *hooks.Workouts
	recommendations *hooks.Recommendations
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "spartan",
	Short: "Spartan fitness tracker from the terminal",
	Long: `spartan talks to a Spartan fitness server.

Browse the workout catalog and today's challenge, record completions,
check your warrior stats and ask for personalised recommendations.

Settings live in the config file and may be overridden with SPARTAN_*
environment variables, e.g. SPARTAN_API_URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Setup(logging.SetupParams{LogLevel: level})
		log.SetOutput(cmd.ErrOrStderr())

		a, err := newApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func newApp(noticeOut io.Writer) (*app, error) {
	cfg, store, err := config.LoadClientConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	api := client.New(client.Options{BaseURL: cfg.APIURL, Token: cfg.Token, Timeout: cfg.Timeout})
	notifier := hooks.NotifierFunc(func(n hooks.Notice) {
		marker := "✓"
		if n.Destructive {
			marker = "✗"
		}
		fmt.Fprintf(noticeOut, "%s %s: %s\n", marker, n.Title, n.Description)
	})

	return &app{
		cfg:             cfg,
		store:           store,
		api:             api,
		profile:         hooks.NewProfile(api, notifier),
		workouts:        hooks.NewWorkouts(api, notifier),
		recommendations: hooks.NewRecommendations(api, notifier),
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultClientConfigFile(), "config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		registerCmd,
		statsCmd,
		profileCmd,
		workoutsCmd,
		todayCmd,
		historyCmd,
		completeCmd,
		recommendCmd,
	)
}

// explain turns hook errors into something actionable on a terminal.
func explain(err error) error {
	var authErr *hooks.NotAuthenticatedError
	if errors.As(err, &authErr) {
		return fmt.Errorf("not signed in, run `spartan login` first (web: %s)", authErr.RedirectTo)
	}
	return err
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
