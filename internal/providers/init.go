package providers

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

// InitResult holds the providers that could be built at startup.
type InitResult struct {
	Providers map[string]core.Provider
	// Models is the static catalog of every configured provider with a registered
	// adapter, including those skipped for missing credentials.
	Models          map[string][]string
	DefaultProvider string
}

// Init builds every configured provider through factory.
//
// Providers without credentials are skipped unless they are the default provider,
// in which case startup fails with a missing_credential error. Any other failure to
// build the default provider is fatal as well; failures of optional providers are logged.
func Init(cfg *config.Config, factory *ProviderFactory) (*InitResult, error) {
	if factory == nil {
		return nil, fmt.Errorf("provider factory is required")
	}

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &InitResult{
		Providers:       make(map[string]core.Provider),
		Models:          make(map[string][]string),
		DefaultProvider: cfg.DefaultProvider,
	}

	for _, name := range names {
		pCfg := cfg.Providers[name]
		isDefault := name == cfg.DefaultProvider

		if models := factory.Models(pCfg.Type); models != nil {
			result.Models[name] = models
		}

		if pCfg.APIKey == "" && !isDefault {
			slog.Info("provider skipped: no credentials", "name", name)
			continue
		}

		p, err := factory.Create(pCfg)
		if err != nil {
			if isDefault {
				return nil, err
			}
			slog.Error("failed to initialize provider", "name", name, "type", pCfg.Type, "error", err)
			continue
		}

		result.Providers[name] = p
		slog.Info("provider initialized", "name", name, "type", pCfg.Type, "model", pCfg.Model, "default", isDefault)
	}

	if _, ok := result.Providers[cfg.DefaultProvider]; !ok {
		return nil, core.NewUnsupportedProviderError(cfg.DefaultProvider)
	}
	return result, nil
}
