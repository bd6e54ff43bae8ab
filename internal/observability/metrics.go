// Package observability exposes Prometheus metrics for upstream provider calls,
// completions and inbound HTTP traffic.
package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/llmclient"
)

const namespace = "asimov"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamInFlight *prometheus.GaugeVec

	completions *prometheus.CounterVec
	tokens      *prometheus.CounterVec
	costUSD     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors, including the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream provider calls by provider, endpoint and status",
		}, []string{"provider", "endpoint", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider call latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"provider", "endpoint"}),
		upstreamInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_requests_in_flight",
			Help:      "Upstream provider calls currently running",
		}, []string{"provider"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Successful completions by operation and provider",
		}, []string{"operation", "provider"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed by provider, model and direction",
		}, []string{"provider", "model", "direction"}),
		costUSD: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cost_usd_total",
			Help:      "Estimated spend in USD by provider and model",
		}, []string{"provider", "model"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.upstreamDuration,
		m.upstreamInFlight,
		m.completions,
		m.tokens,
		m.costUSD,
		m.httpRequests,
	)
	return m
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns llmclient hooks that record upstream call counts and latency.
func (m *Metrics) Hooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnRequestStart: func(ctx context.Context, info llmclient.RequestInfo) context.Context {
			m.upstreamInFlight.WithLabelValues(info.Provider).Inc()
			return ctx
		},
		OnRequestEnd: func(_ context.Context, info llmclient.ResponseInfo) {
			m.upstreamInFlight.WithLabelValues(info.Provider).Dec()
			m.upstreamRequests.WithLabelValues(info.Provider, info.Endpoint, statusLabel(info)).Inc()
			m.upstreamDuration.WithLabelValues(info.Provider, info.Endpoint).Observe(info.Duration.Seconds())
		},
	}
}

func statusLabel(info llmclient.ResponseInfo) string {
	if info.StatusCode > 0 {
		return strconv.Itoa(info.StatusCode)
	}
	if errors.Is(info.Err, context.Canceled) || errors.Is(info.Err, context.DeadlineExceeded) {
		return "canceled"
	}
	if info.Err != nil {
		return "error"
	}
	return "unknown"
}

// RecordCompletion counts a successful completion with its tokens and cost.
func (m *Metrics) RecordCompletion(_ context.Context, operation string, result *core.CompletionResult) {
	if result == nil {
		return
	}
	m.completions.WithLabelValues(operation, result.Provider).Inc()

	if result.Usage != nil {
		m.tokens.WithLabelValues(result.Provider, result.Model, "input").Add(float64(result.Usage.PromptTokens))
		m.tokens.WithLabelValues(result.Provider, result.Model, "output").Add(float64(result.Usage.CompletionTokens))
	}
	if result.Cost != nil && *result.Cost > 0 {
		m.costUSD.WithLabelValues(result.Provider, result.Model).Add(*result.Cost)
	}
}

// Middleware counts inbound requests by route template rather than raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
