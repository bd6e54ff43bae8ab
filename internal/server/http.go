// Package server provides HTTP handlers and server setup for the AI service.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/observability"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/ratelimit"
)

// DefaultBodySizeLimit is used when Config.BodySizeLimit is empty.
const DefaultBodySizeLimit = "1M"

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	BodySizeLimit string // echo size notation, e.g. "1M"

	// Metrics is exposed on MetricsEndpoint and counts requests when non-nil.
	Metrics         *observability.Metrics
	MetricsEndpoint string

	// RateLimiter throttles /v1 routes when non-nil.
	RateLimiter ratelimit.Limiter

	SwaggerEnabled bool
}

// New creates a new HTTP server
func New(svc AIService, templates TemplateLister, cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := NewHandler(svc, templates)

	metricsPath := "/metrics"
	if cfg.MetricsEndpoint != "" {
		metricsPath = path.Clean(cfg.MetricsEndpoint)
	}

	bodySizeLimit := cfg.BodySizeLimit
	if bodySizeLimit == "" {
		bodySizeLimit = DefaultBodySizeLimit
	}

	// Global middleware stack (order matters)
	e.Use(requestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodySizeLimit))
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
	}
	if cfg.RateLimiter != nil {
		e.Use(ratelimit.Middleware(cfg.RateLimiter, ratelimit.SkipPaths("/health", metricsPath)))
	}

	// Public routes
	e.GET("/health", handler.Health)
	if cfg.Metrics != nil {
		e.GET(metricsPath, echo.WrapHandler(cfg.Metrics.Handler()))
	}
	if cfg.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API routes
	ai := e.Group("/v1/ai")
	ai.POST("/chat", handler.Chat)
	ai.POST("/tutor", handler.Tutor)
	ai.POST("/conversation-partner", handler.ConversationPartner)
	ai.POST("/analyze", handler.Analyze)
	ai.POST("/conversation-starters", handler.ConversationStarters)
	ai.GET("/models", handler.Models)
	ai.GET("/providers/validate", handler.ValidateProvider)

	e.GET("/v1/templates", handler.Templates)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// requestID reuses the client's X-Request-ID or generates a UUID, and stores it on the request context.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(core.WithRequestID(req.Context(), id)))
		},
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
