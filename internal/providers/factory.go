// Package providers builds model provider adapters and holds the operations they share.
package providers

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/llmclient"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/usage"
)

// ProviderOptions carries the shared infrastructure handed to every builder.
type ProviderOptions struct {
	Hooks llmclient.Hooks
	// HTTPClient is used for upstream calls; nil means the pooled default client.
	HTTPClient *http.Client
	Prices     *usage.PriceTable
}

// Builder creates a provider instance from configuration.
type Builder func(cfg config.ProviderConfig, opts ProviderOptions) (core.Provider, error)

// Registration describes a provider package to the factory.
type Registration struct {
	Type string
	New  Builder
	// Models is the static catalog advertised for this provider.
	Models []string
}

// ProviderFactory builds providers from registrations.
type ProviderFactory struct {
	mu            sync.RWMutex
	registrations map[string]Registration
	hooks         llmclient.Hooks
	httpClient    *http.Client
	prices        *usage.PriceTable
}

// NewProviderFactory creates an empty factory using the default price table.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{
		registrations: make(map[string]Registration),
		prices:        usage.DefaultPriceTable(),
	}
}

// Add registers a provider package. A later registration for the same type replaces the earlier one.
func (f *ProviderFactory) Add(r Registration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations[r.Type] = r
}

// SetHooks sets the observability hooks passed to every provider built afterwards.
func (f *ProviderFactory) SetHooks(hooks llmclient.Hooks) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = hooks
}

// SetHTTPClient sets the upstream HTTP client passed to every provider built afterwards.
func (f *ProviderFactory) SetHTTPClient(c *http.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.httpClient = c
}

// SetPrices replaces the price table used for cost accounting.
func (f *ProviderFactory) SetPrices(p *usage.PriceTable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices = p
}

// Create builds the provider described by cfg.
func (f *ProviderFactory) Create(cfg config.ProviderConfig) (core.Provider, error) {
	f.mu.RLock()
	r, ok := f.registrations[cfg.Type]
	opts := ProviderOptions{Hooks: f.hooks, HTTPClient: f.httpClient, Prices: f.prices}
	f.mu.RUnlock()

	if !ok {
		return nil, core.NewUnsupportedProviderError(cfg.Type)
	}
	p, err := r.New(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Type, err)
	}
	return p, nil
}

// Models returns the static model catalog of providerType, or nil when it is not registered.
func (f *ProviderFactory) Models(providerType string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	r, ok := f.registrations[providerType]
	if !ok {
		return nil
	}
	out := make([]string, len(r.Models))
	copy(out, r.Models)
	return out
}

// RegisteredTypes returns the registered provider types, sorted.
func (f *ProviderFactory) RegisteredTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.registrations))
	for t := range f.registrations {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
