package providers

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/usage"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000

	// AnalysisTemperature is forced on every Analyze call.
	AnalysisTemperature = 0.3
)

var analysisInstructions = map[core.AnalysisType]string{
	core.AnalysisGrammar: "Please analyze the following text for grammar errors. " +
		"Give the corrected version in quotes, list each error, and explain the corrections:\n\n\"%s\"",
	core.AnalysisStyle: "Please analyze the writing style of the following text. " +
		"Suggest improvements to make it sound more natural and fluent, and explain each suggestion:\n\n\"%s\"",
	core.AnalysisVocabulary: "Please analyze the vocabulary used in the following text. " +
		"Point out repetitive or imprecise words and suggest richer alternatives with examples:\n\n\"%s\"",
}

// Chat prepends systemPrompt as a system message when it is non-empty and completes.
func Chat(ctx context.Context, c core.Completer, msgs []core.Message, systemPrompt string, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return c.Complete(ctx, core.WithSystemPrompt(msgs, systemPrompt), opts)
}

// Analyze sends text wrapped in the fixed instruction for analysisType as a single user
// message. Temperature is always AnalysisTemperature.
func Analyze(ctx context.Context, c core.Completer, text string, analysisType core.AnalysisType, opts core.CompletionOptions) (*core.CompletionResult, error) {
	instruction, ok := analysisInstructions[analysisType]
	if !ok {
		return nil, core.NewInvalidRequestError(fmt.Sprintf("unsupported analysis type: %s", analysisType), nil)
	}

	msgs := []core.Message{{Role: core.RoleUser, Content: fmt.Sprintf(instruction, text)}}
	return c.Complete(ctx, msgs, opts.WithTemperature(AnalysisTemperature))
}

// Resolved holds completion parameters after defaults are applied.
type Resolved struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Resolve applies the adapter defaults to opts.
func Resolve(opts core.CompletionOptions, defaultModel string) Resolved {
	r := Resolved{Model: defaultModel, Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
	if opts.Model != "" {
		r.Model = opts.Model
	}
	if opts.Temperature != nil {
		r.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		r.MaxTokens = *opts.MaxTokens
	}
	return r
}

// ApplyCost sets result.Cost from its usage. Results without usage keep a nil cost.
func ApplyCost(result *core.CompletionResult, prices *usage.PriceTable) {
	if result == nil || result.Usage == nil || prices == nil {
		return
	}
	cost := prices.Cost(result.Model, *result.Usage)
	result.Cost = &cost
}

// LogRequest logs an outgoing completion.
func LogRequest(ctx context.Context, provider string, r Resolved, messageCount int) {
	core.Logger(ctx).Info("completion request",
		"provider", provider,
		"model", r.Model,
		"message_count", messageCount,
	)
}

// LogResponse logs a finished completion.
func LogResponse(ctx context.Context, result *core.CompletionResult) {
	totalTokens := 0
	if result.Usage != nil {
		totalTokens = result.Usage.TotalTokens
	}
	attrs := []any{
		"provider", result.Provider,
		"model", result.Model,
		"finish_reason", result.FinishReason,
		"total_tokens", totalTokens,
	}
	if result.Cost != nil {
		attrs = append(attrs, "cost_usd", *result.Cost)
	}
	core.Logger(ctx).Info("completion response", attrs...)
}

// LogFailure logs err with a stack trace. The error itself is returned unchanged by callers.
func LogFailure(ctx context.Context, provider string, err error) {
	core.Logger(ctx).Error("completion failed",
		"provider", provider,
		"error", err,
		"stack", string(debug.Stack()),
	)
}
