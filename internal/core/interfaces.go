// Package core defines the core interfaces and types for the AI service.
package core

import "context"

// Completer executes a raw completion against one backend.
type Completer interface {
	// Complete sends msgs verbatim (role and content only) and returns the normalized result.
	Complete(ctx context.Context, msgs []Message, opts CompletionOptions) (*CompletionResult, error)
}

// Provider is the capability set every LLM backend adapter implements.
type Provider interface {
	Completer

	// Name returns the provider id the adapter is registered under (e.g. "openai").
	Name() string

	// Chat prepends systemPrompt as a system message when non-empty, then completes.
	Chat(ctx context.Context, msgs []Message, systemPrompt string, opts CompletionOptions) (*CompletionResult, error)

	// Analyze runs a fixed analysis instruction over text with a deterministic temperature.
	Analyze(ctx context.Context, text string, analysisType AnalysisType, opts CompletionOptions) (*CompletionResult, error)
}
