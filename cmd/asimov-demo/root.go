package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/logging"
)

// Global flag values.
var (
	language  string
	level     string
	provider  string
	model     string
	logLevel  string
	noColor   bool
	templates string
)

var rootCmd = &cobra.Command{
	Use:   "asimov-demo",
	Short: "Try the Asimov prompts and providers from a terminal",
	Long: `asimov-demo renders prompt templates, sends them to the configured provider
and shows what the correction extractor makes of the reply.

Provider settings come from the same environment variables (or .env file)
as the service: OPENAI_API_KEY, ANTHROPIC_API_KEY, DEFAULT_AI_PROVIDER, ...`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		lvl, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.FormatPretty, lvl)))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "target language (default English)")
	rootCmd.PersistentFlags().StringVar(&level, "level", "", "learner level (default intermediate)")
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "provider id (default DEFAULT_AI_PROVIDER)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "model override")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&templates, "templates", "", "YAML template catalog merged over the built-in one")

	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(startersCmd)
}
