package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"spartan/fitness-tracker/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestOpenAI_Complete(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"id\":\"w1\"}]"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(Options{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"w1"}]`, reply)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system text", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "user text", got.Messages[1].Content)
	assert.Equal(t, ProviderOpenAI, c.Provider())
}

func TestOpenAI_NonSuccessIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(Options{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "slow down")
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(Options{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAI_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewOpenAI(Options{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(Options{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGemini_Complete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"id\":\"w2\"}]"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), Options{APIKey: "g-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	reply, err := g.Complete(context.Background(), "be a trainer", "recommend")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"w2"}]`, reply)
	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "generationConfig")
	assert.Equal(t, ProviderGemini, g.Provider())
}

func TestGemini_NonSuccessIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad key","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), Options{APIKey: "g-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = g.Complete(context.Background(), "s", "u")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, "bad key", upstream.Body)
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(context.Background(), config.LLMConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Provider())

	_, err = New(context.Background(), config.LLMConfig{Provider: "llama", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestWithTimeout_KeepsCallerDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	ctx, done := withTimeout(parent, time.Millisecond)
	defer done()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), deadline, time.Minute)
}

func TestUnconfigured(t *testing.T) {
	c := Unconfigured(ProviderOpenAI, ErrNoAPIKey)

	_, err := c.Complete(context.Background(), "system", "user")
	require.ErrorIs(t, err, ErrNoAPIKey)
	assert.Equal(t, ProviderOpenAI, c.Provider())

	assert.Equal(t, ProviderOpenAI, Unconfigured("", ErrNoAPIKey).Provider())
	assert.Equal(t, ProviderGemini, Unconfigured(ProviderGemini, ErrNoAPIKey).Provider())
}

func TestOpenAI_ConfiguredZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(OptionsFromConfig(config.LLMConfig{APIKey: "sk-test", BaseURL: srv.URL, Temperature: 0}))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	require.Contains(t, got, "temperature")
	assert.Equal(t, 0.0, got["temperature"])
}
