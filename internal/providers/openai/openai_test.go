package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/usage"
)

const okBody = `{
	"id": "chatcmpl-123",
	"object": "chat.completion",
	"model": "gpt-4o-2024-08-06",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "Bonjour ! Comment ça va ?"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 1000, "completion_tokens": 500, "total_tokens": 1500}
}`

// upstream records the last request body and answers with status/body.
type upstream struct {
	server  *httptest.Server
	body    map[string]any
	headers http.Header
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		u.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		u.body = nil
		_ = json.Unmarshal(raw, &u.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestProvider(t *testing.T, u *upstream) *Provider {
	t.Helper()
	p, err := newProvider(config.ProviderConfig{
		Type:    "openai",
		APIKey:  "sk-test",
		BaseURL: u.server.URL,
		Model:   "gpt-4o-mini",
	}, providers.ProviderOptions{Prices: usage.DefaultPriceTable(), HTTPClient: u.server.Client()})
	require.NoError(t, err)
	return p
}

func TestNew_MissingCredential(t *testing.T) {
	_, err := New(config.ProviderConfig{Type: "openai", APIKeyEnv: "OPENAI_API_KEY"}, providers.ProviderOptions{})

	require.Error(t, err)
	assert.Equal(t, core.ErrorTypeMissingCredential, core.ErrorTypeOf(err))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestComplete_Success(t *testing.T) {
	u := newUpstream(t, http.StatusOK, okBody)
	p := newTestProvider(t, u)

	ts := time.Now()
	result, err := p.Complete(context.Background(), []core.Message{
		{Role: core.RoleSystem, Content: "You are a tutor."},
		{Role: core.RoleUser, Content: "Bonjour", Timestamp: &ts},
	}, core.CompletionOptions{Model: "gpt-4o"})

	require.NoError(t, err)
	assert.Equal(t, "Bonjour ! Comment ça va ?", result.Content)
	assert.Equal(t, "gpt-4o-2024-08-06", result.Model)
	assert.Equal(t, "stop", result.FinishReason)
	assert.Equal(t, "openai", result.Provider)
	require.NotNil(t, result.Usage)
	assert.Equal(t, core.Usage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500}, *result.Usage)
	require.NotNil(t, result.Cost)
	assert.InDelta(t, 0.0075, *result.Cost, 1e-9)

	assert.Equal(t, "Bearer sk-test", u.headers.Get("Authorization"))
	assert.Equal(t, "gpt-4o", u.body["model"])
	messages := u.body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "user", "content": "Bonjour"}, messages[1], "timestamps never reach the provider")
}

func TestComplete_Defaults(t *testing.T) {
	u := newUpstream(t, http.StatusOK, `{"choices":[{"message":{"content":"hi"},"finish_reason":"stop"}]}`)
	p := newTestProvider(t, u)

	result, err := p.Complete(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, core.CompletionOptions{})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", u.body["model"])
	assert.Equal(t, 0.7, u.body["temperature"])
	assert.Equal(t, float64(1000), u.body["max_tokens"])

	assert.Equal(t, "gpt-4o-mini", result.Model, "falls back to the requested model")
	assert.Nil(t, result.Usage)
	assert.Nil(t, result.Cost)
}

func TestComplete_NoChoices(t *testing.T) {
	u := newUpstream(t, http.StatusOK, `{"model":"gpt-4o-mini","choices":[]}`)
	p := newTestProvider(t, u)

	result, err := p.Complete(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, core.CompletionOptions{})

	require.NoError(t, err)
	assert.Equal(t, "", result.Content)
	assert.Equal(t, "", result.FinishReason)
}

func TestComplete_UnpricedModelCostsZero(t *testing.T) {
	u := newUpstream(t, http.StatusOK, `{"model":"my-finetune","choices":[{"message":{"content":"ok"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
	p := newTestProvider(t, u)

	result, err := p.Complete(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, core.CompletionOptions{})

	require.NoError(t, err)
	require.NotNil(t, result.Cost)
	assert.Zero(t, *result.Cost)
}

func TestComplete_ReasoningModelParameters(t *testing.T) {
	u := newUpstream(t, http.StatusOK, okBody)
	p := newTestProvider(t, u)

	_, err := p.Complete(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}},
		core.CompletionOptions{Model: "o3-mini", MaxTokens: core.IntPtr(50)})

	require.NoError(t, err)
	assert.Equal(t, float64(50), u.body["max_completion_tokens"])
	assert.NotContains(t, u.body, "max_tokens")
	assert.NotContains(t, u.body, "temperature")
}

func TestComplete_ErrorReturnedUnmodified(t *testing.T) {
	u := newUpstream(t, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`)
	p := newTestProvider(t, u)

	_, err := p.Complete(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, core.CompletionOptions{})

	var gwErr *core.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, core.ErrorTypeAuthentication, gwErr.Type)
	assert.Equal(t, "Incorrect API key provided", gwErr.Message)
}

func TestChat_PrependsSystemPrompt(t *testing.T) {
	u := newUpstream(t, http.StatusOK, okBody)
	p := newTestProvider(t, u)

	_, err := p.Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, "Be brief.", core.CompletionOptions{})

	require.NoError(t, err)
	messages := u.body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "Be brief."}, messages[0])
}

func TestAnalyze_ForcesLowTemperature(t *testing.T) {
	u := newUpstream(t, http.StatusOK, okBody)
	p := newTestProvider(t, u)

	_, err := p.Analyze(context.Background(), "I are fine", core.AnalysisGrammar,
		core.CompletionOptions{Temperature: core.Float64Ptr(1.9)})

	require.NoError(t, err)
	assert.Equal(t, 0.3, u.body["temperature"])
	messages := u.body["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Contains(t, msg["content"], `"I are fine"`)
}

func TestIsValidClientRequestID(t *testing.T) {
	assert.True(t, isValidClientRequestID("req-123"))
	assert.False(t, isValidClientRequestID("réq"))
	assert.False(t, isValidClientRequestID(string(make([]byte, 513))))
}

func TestSetHeaders_ForwardsRequestID(t *testing.T) {
	u := newUpstream(t, http.StatusOK, okBody)
	p := newTestProvider(t, u)

	ctx := core.WithRequestID(context.Background(), "abc-123")
	_, err := p.Complete(ctx, []core.Message{{Role: core.RoleUser, Content: "hi"}}, core.CompletionOptions{})

	require.NoError(t, err)
	assert.Equal(t, "abc-123", u.headers.Get("X-Client-Request-Id"))
}
