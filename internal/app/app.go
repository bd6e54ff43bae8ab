// Package app provides the main application struct for centralized dependency management
// and lifecycle control of the Asimov AI service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/httpclient"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/observability"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/orchestrator"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/ratelimit"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/server"
)

// App represents the main application with all its dependencies.
type App struct {
	config       *config.Config
	templates    *prompts.Store
	orchestrator *orchestrator.Orchestrator
	limiter      ratelimit.Limiter
	server       *server.Server

	shutdownMu sync.Mutex
	shutdown   bool
}

// Config holds the configuration options for creating an App.
type Config struct {
	AppConfig *config.Config

	// Factory provides the ProviderFactory used to construct provider instances.
	Factory *providers.ProviderFactory
}

// New creates a new App with all dependencies initialized.
// The caller must call Shutdown to release resources.
func New(cfg Config) (*App, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if cfg.Factory == nil {
		return nil, fmt.Errorf("factory is required")
	}

	appCfg := cfg.AppConfig
	app := &App{config: appCfg}

	var metrics *observability.Metrics
	if appCfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		cfg.Factory.SetHooks(metrics.Hooks())
	}
	cfg.Factory.SetHTTPClient(httpclient.NewHTTPClient(&httpclient.ClientConfig{
		Timeout:               appCfg.HTTP.Timeout,
		ResponseHeaderTimeout: appCfg.HTTP.ResponseHeaderTimeout,
	}))

	providerResult, err := providers.Init(appCfg, cfg.Factory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	app.templates = prompts.NewDefaultStore()
	if appCfg.TemplatesPath != "" {
		if _, err := prompts.LoadFile(app.templates, appCfg.TemplatesPath); err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
	}

	orchCfg := orchestrator.Config{
		Providers:       providerResult.Providers,
		DefaultProvider: providerResult.DefaultProvider,
		Templates:       app.templates,
		Models:          providerResult.Models,
	}
	if metrics != nil {
		orchCfg.Recorder = metrics
	}
	app.orchestrator, err = orchestrator.New(orchCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	app.limiter, err = newLimiter(appCfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	serverCfg := &server.Config{
		BodySizeLimit:   appCfg.Server.BodySizeLimit,
		Metrics:         metrics,
		MetricsEndpoint: appCfg.Metrics.Endpoint,
		RateLimiter:     app.limiter,
		SwaggerEnabled:  appCfg.Server.SwaggerEnabled,
	}
	app.server = server.New(app.orchestrator, app.templates, serverCfg)

	app.logStartupInfo()
	return app, nil
}

func newLimiter(cfg config.RateLimitConfig) (ratelimit.Limiter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Backend == config.RateLimitBackendRedis {
		l, err := ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
			URL:      cfg.RedisURL,
			Requests: cfg.Requests,
			Window:   cfg.Window,
		})
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return ratelimit.NewMemoryLimiter(cfg.Requests, cfg.Window), nil
}

// Orchestrator returns the provider orchestrator.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orchestrator
}

// Templates returns the prompt template store.
func (a *App) Templates() *prompts.Store {
	return a.templates
}

// Handler returns the HTTP handler, for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.server
}

// Start starts the HTTP server on the given address.
// This is a blocking call that returns when the server stops.
func (a *App) Start(addr string) error {
	if a.server == nil {
		return fmt.Errorf("server is not initialized")
	}
	slog.Info("starting server", "address", addr)
	if err := a.server.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server, then releases the rate limiter.
// It is idempotent; every step is attempted and failures are joined.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	if a.shutdown {
		a.shutdownMu.Unlock()
		return nil
	}
	a.shutdown = true
	a.shutdownMu.Unlock()

	slog.Info("shutting down application...")

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if a.limiter != nil {
		if err := a.limiter.Close(); err != nil {
			slog.Error("rate limiter close error", "error", err)
			errs = append(errs, fmt.Errorf("rate limiter close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	slog.Info("application shutdown complete")
	return nil
}

// logStartupInfo logs the application configuration on startup.
func (a *App) logStartupInfo() {
	cfg := a.config

	slog.Info("providers ready",
		"default", a.orchestrator.DefaultProvider(),
		"available", a.orchestrator.Providers(),
	)
	slog.Info("template catalog ready", "count", a.templates.Len())

	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}

	if cfg.RateLimit.Enabled {
		slog.Info("rate limiting enabled",
			"backend", cfg.RateLimit.Backend,
			"requests", cfg.RateLimit.Requests,
			"window", cfg.RateLimit.Window,
		)
	} else {
		slog.Info("rate limiting disabled")
	}

	if cfg.Server.SwaggerEnabled {
		slog.Info("swagger UI enabled", "path", "/swagger/index.html")
	}
}
