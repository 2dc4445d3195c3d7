// Package client talks to the Spartan HTTP API and the recommendation
// function on behalf of the hooks.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/hooks"
	"spartan/fitness-tracker/internal/service"
)

// DefaultTimeout bounds every request, including the recommendation call,
// which waits on the model.
const DefaultTimeout = 60 * time.Second

const recommendationPath = "/functions/v1/workout-recommendations"

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ hooks.DataSource = (*Client)(nil)

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		token:      opts.Token,
	}
}

// Token returns the bearer token in use, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{Token: resp.Token, UserID: resp.User.ID, Email: resp.User.Email}, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, email, password string, displayName *string) error {
	body := struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		DisplayName *string `json:"display_name,omitempty"`
	}{email, password, displayName}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

func (c *Client) FetchProfile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &profile)
	var remote *hooks.RemoteError
	if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPatch, "/api/v1/profile", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FetchStats reads the server-rendered progress overview.
func (c *Client) FetchStats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := c.do(ctx, http.MethodGet, "/api/v1/profile/stats", nil, &stats)
	return stats, err
}

func (c *Client) FetchWorkouts(ctx context.Context) ([]domain.Workout, error) {
	var workouts []domain.Workout
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *Client) FetchTodayChallenge(ctx context.Context) (*domain.DailyChallenge, error) {
	var challenge *domain.DailyChallenge
	if err := c.do(ctx, http.MethodGet, "/api/v1/challenges/today", nil, &challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (c *Client) FetchCompletedWorkouts(ctx context.Context) ([]domain.CompletedWorkout, error) {
	var completed []domain.CompletedWorkout
	if err := c.do(ctx, http.MethodGet, "/api/v1/user-workouts", nil, &completed); err != nil {
		return nil, err
	}
	return completed, nil
}

func (c *Client) FetchChallengeCompletions(ctx context.Context) ([]domain.ChallengeCompletion, error) {
	var completions []domain.ChallengeCompletion
	if err := c.do(ctx, http.MethodGet, "/api/v1/challenge-completions", nil, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (c *Client) CompleteWorkout(ctx context.Context, in service.WorkoutCompletion) (*domain.UserWorkout, error) {
	body := struct {
		WorkoutID       string  `json:"workout_id"`
		DurationMinutes *int    `json:"duration_minutes,omitempty"`
		Notes           *string `json:"notes,omitempty"`
	}{in.WorkoutID, in.DurationMinutes, in.Notes}

	var completion domain.UserWorkout
	if err := c.do(ctx, http.MethodPost, "/api/v1/user-workouts", body, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}

func (c *Client) CompleteChallenge(ctx context.Context, in service.ChallengeCompletion) (*domain.ChallengeCompletion, error) {
	body := struct {
		ChallengeID           string `json:"challenge_id"`
		CompletionTimeSeconds *int   `json:"completion_time_seconds,omitempty"`
		RepsCompleted         *int   `json:"reps_completed,omitempty"`
	}{in.ChallengeID, in.CompletionTimeSeconds, in.RepsCompleted}

	var completion domain.ChallengeCompletion
	if err := c.do(ctx, http.MethodPost, "/api/v1/challenge-completions", body, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}

// Recommend invokes the recommendation function.
func (c *Client) Recommend(ctx context.Context, req service.RecommendationRequest) (*domain.RecommendationSet, error) {
	var set domain.RecommendationSet
	if err := c.do(ctx, http.MethodPost, recommendationPath, req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// do sends body as JSON and decodes a 2xx answer into out. Other answers
// become *hooks.RemoteError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	log.WithFields(log.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := &hooks.RemoteError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			remote.Message = eb.Error
		}
		return remote
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
