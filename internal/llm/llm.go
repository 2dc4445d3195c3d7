// Package llm sends a single system+user prompt to a hosted language model
// and returns the text of its reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spartan/fitness-tracker/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoAPIKey      = errors.New("llm: api key not configured")
	ErrEmptyReply    = errors.New("llm: no completion returned")
	ErrUnknownVendor = errors.New("llm: unknown provider")
)

// Completer is one round trip to a model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Provider() string
}

// UpstreamError is a non-success answer from the model provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s api request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Options tune a completer. Zero values take the package defaults; a nil
// Temperature does too, so an explicit 0 is honoured.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature *float64
	Timeout     time.Duration
}

func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
}

func (o Options) temperature() float64 {
	if o.Temperature == nil {
		return defaultTemperature
	}
	return *o.Temperature
}

// New builds the completer named by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	opts := OptionsFromConfig(cfg)
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAI(opts)
	case ProviderGemini:
		return NewGemini(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, cfg.Provider)
	}
}

// withTimeout bounds ctx unless the caller already set a deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Unconfigured returns a completer that fails every call with err. It lets
// the server start without model credentials; recommendation requests then
// fail with that error.
func Unconfigured(provider string, err error) Completer {
	if provider == "" {
		provider = ProviderOpenAI
	}
	return unconfigured{provider: provider, err: err}
}

type unconfigured struct {
	provider string
	err      error
}

func (u unconfigured) Complete(context.Context, string, string) (string, error) {
	return "", u.err
}

func (u unconfigured) Provider() string { return u.provider }
