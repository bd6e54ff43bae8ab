// Package main is the entry point for the Asimov AI service.
//
// @title        Asimov AI Service API
// @version      1.0
// @description  Tutoring, conversation and text analysis backed by large language models.
// @BasePath     /
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/cmd/asimov/docs"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/config"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/app"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/logging"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers/anthropic"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/providers/openai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(cfg.Log.Format, cfg.Log.Level); err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	slog.Info("starting asimov", "version", docs.SwaggerInfo.Version)

	factory := providers.NewProviderFactory()
	factory.Add(openai.Registration)
	factory.Add(anthropic.Registration)

	application, err := app.New(app.Config{
		AppConfig: cfg,
		Factory:   factory,
	})
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := application.Shutdown(ctx); err != nil {
			slog.Error("application shutdown error", "error", err)
		}
	}()

	if err := application.Start(":" + cfg.Server.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
