// Package openai adapts OpenAI-compatible chat completion APIs.
package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/llmclient"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/usage"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Registration provides factory registration for the OpenAI provider.
var Registration = providers.Registration{
	Type:   providerName,
	New:    New,
	Models: []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
}

// Provider talks to /chat/completions.
type Provider struct {
	client       *llmclient.Client
	apiKey       string
	defaultModel string
	prices       *usage.PriceTable
}

// New creates an OpenAI provider. It fails when no API key is configured.
func New(cfg config.ProviderConfig, opts providers.ProviderOptions) (core.Provider, error) {
	return newProvider(cfg, opts)
}

func newProvider(cfg config.ProviderConfig, opts providers.ProviderOptions) (*Provider, error) {
	if cfg.APIKey == "" {
		envVar := cfg.APIKeyEnv
		if envVar == "" {
			envVar = "OPENAI_API_KEY"
		}
		return nil, core.NewMissingCredentialError(providerName, envVar)
	}

	p := &Provider{
		apiKey:       cfg.APIKey,
		defaultModel: cfg.Model,
		prices:       opts.Prices,
	}
	if p.defaultModel == "" {
		p.defaultModel = defaultModel
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	clientCfg := llmclient.DefaultConfig(providerName, baseURL)
	clientCfg.MaxRetries = cfg.MaxRetries
	clientCfg.Hooks = opts.Hooks

	if opts.HTTPClient != nil {
		p.client = llmclient.NewWithHTTPClient(opts.HTTPClient, clientCfg, p.setHeaders)
	} else {
		p.client = llmclient.New(clientCfg, p.setHeaders)
	}
	return p, nil
}

// Name returns "openai".
func (p *Provider) Name() string { return providerName }

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	// OpenAI rejects non-ASCII ids and ids longer than 512 bytes with a 400.
	if requestID := core.GetRequestID(req.Context()); requestID != "" && isValidClientRequestID(requestID) {
		req.Header.Set("X-Client-Request-Id", requestID)
	}
}

func isValidClientRequestID(id string) bool {
	if len(id) > 512 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] > 127 {
			return false
		}
	}
	return true
}

// isOSeriesModel reports whether model is a reasoning model (o1, o3, o4 families)
// that takes max_completion_tokens and rejects temperature.
func isOSeriesModel(model string) bool {
	m := strings.ToLower(model)
	return len(m) >= 2 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9'
}

type chatMessage struct {
	Role    core.Role `json:"role"`
	Content string    `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         *float64      `json:"temperature,omitempty"`
	MaxTokens           *int          `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int          `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func buildRequest(msgs []core.Message, r providers.Resolved) chatRequest {
	wire := make([]chatMessage, len(msgs))
	for i, m := range msgs {
		wire[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	req := chatRequest{Model: r.Model, Messages: wire}
	maxTokens := r.MaxTokens
	if isOSeriesModel(r.Model) {
		req.MaxCompletionTokens = &maxTokens
		return req
	}
	temperature := r.Temperature
	req.Temperature = &temperature
	req.MaxTokens = &maxTokens
	return req
}

// Complete sends msgs to the chat completions endpoint.
func (p *Provider) Complete(ctx context.Context, msgs []core.Message, opts core.CompletionOptions) (*core.CompletionResult, error) {
	r := providers.Resolve(opts, p.defaultModel)
	providers.LogRequest(ctx, providerName, r, len(msgs))

	var resp chatResponse
	err := p.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     buildRequest(msgs, r),
	}, &resp)
	if err != nil {
		providers.LogFailure(ctx, providerName, err)
		return nil, err
	}

	result := &core.CompletionResult{
		Model:    resp.Model,
		Provider: providerName,
	}
	if result.Model == "" {
		result.Model = r.Model
	}
	if len(resp.Choices) > 0 {
		result.Content = resp.Choices[0].Message.Content
		result.FinishReason = resp.Choices[0].FinishReason
	}
	if resp.Usage != nil {
		result.Usage = &core.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	providers.ApplyCost(result, p.prices)

	providers.LogResponse(ctx, result)
	return result, nil
}

// Chat prepends systemPrompt when non-empty and completes.
func (p *Provider) Chat(ctx context.Context, msgs []core.Message, systemPrompt string, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return providers.Chat(ctx, p, msgs, systemPrompt, opts)
}

// Analyze runs a fixed analysis instruction over text at temperature 0.3.
func (p *Provider) Analyze(ctx context.Context, text string, analysisType core.AnalysisType, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return providers.Analyze(ctx, p, text, analysisType, opts)
}
