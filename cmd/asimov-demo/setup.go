package main

import (
	"fmt"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/orchestrator"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers/anthropic"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers/openai"
)

func loadStore() (*prompts.Store, error) {
	store := prompts.NewDefaultStore()
	if templates != "" {
		if _, err := prompts.LoadFile(store, templates); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// newOrchestrator builds providers from the environment, like the service does.
func newOrchestrator(store *prompts.Store) (*orchestrator.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	factory := providers.NewProviderFactory()
	factory.Add(openai.Registration)
	factory.Add(anthropic.Registration)

	result, err := providers.Init(cfg, factory)
	if err != nil {
		return nil, fmt.Errorf("providers: %w", err)
	}

	return orchestrator.New(orchestrator.Config{
		Providers:       result.Providers,
		DefaultProvider: result.DefaultProvider,
		Templates:       store,
		Models:          result.Models,
	})
}

func completionOptions() core.CompletionOptions {
	return core.CompletionOptions{Provider: provider, Model: model}
}
