package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
)

var renderTopics string

var renderCmd = &cobra.Command{
	Use:   "render <template-id> [message]",
	Short: "Render a template without calling a provider",
	Example: `  asimov-demo render conversation_tutor "Hola, ¿qué tal?" -l Spanish --level beginner
  asimov-demo render conversation_starter --topics "music, sports"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderTopics, "topics", "", "topics for the conversation starter template")
}

func runRender(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	rc := prompts.RenderContext{Language: language, Level: level}
	if len(args) == 2 {
		rc.UserMessage = args[1]
	}
	if renderTopics != "" {
		rc.AdditionalContext = map[string]string{"topics": renderTopics}
	}

	rendered, err := store.Render(args[0], rc)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}
