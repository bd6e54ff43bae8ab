// Package anthropic adapts the Anthropic Messages API through the official SDK.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/llmclient"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/usage"
)

const (
	providerName = "anthropic"
	defaultModel = "claude-3-5-haiku-latest"

	// Anthropic accepts temperatures in [0, 1].
	maxTemperature = 1.0
)

// Registration provides factory registration for the Anthropic provider.
var Registration = providers.Registration{
	Type:   providerName,
	New:    New,
	Models: []string{"claude-sonnet-4-5", "claude-3-5-haiku-latest"},
}

// Provider implements core.Provider on top of anthropic.Client.
type Provider struct {
	client       anthropic.Client
	defaultModel string
	prices       *usage.PriceTable
}

// New creates an Anthropic provider. It fails when no API key is configured.
func New(cfg config.ProviderConfig, opts providers.ProviderOptions) (core.Provider, error) {
	return newProvider(cfg, opts)
}

func newProvider(cfg config.ProviderConfig, opts providers.ProviderOptions) (*Provider, error) {
	if cfg.APIKey == "" {
		envVar := cfg.APIKeyEnv
		if envVar == "" {
			envVar = "ANTHROPIC_API_KEY"
		}
		return nil, core.NewMissingCredentialError(providerName, envVar)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithMiddleware(hookMiddleware(opts.Hooks)),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	p := &Provider{
		client:       anthropic.NewClient(clientOpts...),
		defaultModel: cfg.Model,
		prices:       opts.Prices,
	}
	if p.defaultModel == "" {
		p.defaultModel = defaultModel
	}
	return p, nil
}

// hookMiddleware reports SDK calls to the same hooks llmclient-based providers use.
func hookMiddleware(hooks llmclient.Hooks) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		info := llmclient.RequestInfo{Provider: providerName, Method: req.Method, Endpoint: req.URL.Path}
		ctx := req.Context()
		if hooks.OnRequestStart != nil {
			if derived := hooks.OnRequestStart(ctx, info); derived != nil {
				ctx = derived
			}
		}

		start := time.Now()
		resp, err := next(req)

		if hooks.OnRequestEnd != nil {
			end := llmclient.ResponseInfo{RequestInfo: info, Duration: time.Since(start), Err: err}
			if resp != nil {
				end.StatusCode = resp.StatusCode
			}
			hooks.OnRequestEnd(ctx, end)
		}
		return resp, err
	}
}

// Name returns "anthropic".
func (p *Provider) Name() string { return providerName }

// buildParams converts msgs into Messages API parameters. System messages are
// folded into the top-level system field in order.
func buildParams(msgs []core.Message, r providers.Resolved) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(r.Model),
		MaxTokens:   int64(r.MaxTokens),
		Temperature: anthropic.Float(min(r.Temperature, maxTemperature)),
	}

	var system []string
	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, m.Content)
		case core.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}
	return params
}

// Complete sends msgs to the Messages API.
func (p *Provider) Complete(ctx context.Context, msgs []core.Message, opts core.CompletionOptions) (*core.CompletionResult, error) {
	r := providers.Resolve(opts, p.defaultModel)
	providers.LogRequest(ctx, providerName, r, len(msgs))

	msg, err := p.client.Messages.New(ctx, buildParams(msgs, r))
	if err != nil {
		err = convertError(err)
		providers.LogFailure(ctx, providerName, err)
		return nil, err
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(text.Text)
		}
	}

	result := &core.CompletionResult{
		Content:      content.String(),
		Model:        string(msg.Model),
		FinishReason: string(msg.StopReason),
		Provider:     providerName,
		Usage: &core.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	if result.Model == "" {
		result.Model = r.Model
	}
	providers.ApplyCost(result, p.prices)

	providers.LogResponse(ctx, result)
	return result, nil
}

// convertError maps SDK API errors onto the shared error taxonomy.
func convertError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return core.ParseProviderError(providerName, apiErr.StatusCode, []byte(apiErr.RawJSON()), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return core.NewProviderError(providerName, http.StatusBadGateway, err.Error(), err)
}

// Chat prepends systemPrompt when non-empty and completes.
func (p *Provider) Chat(ctx context.Context, msgs []core.Message, systemPrompt string, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return providers.Chat(ctx, p, msgs, systemPrompt, opts)
}

// Analyze runs a fixed analysis instruction over text at temperature 0.3.
func (p *Provider) Analyze(ctx context.Context, text string, analysisType core.AnalysisType, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return providers.Analyze(ctx, p, text, analysisType, opts)
}
