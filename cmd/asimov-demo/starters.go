package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/orchestrator"
)

var startersTopics string

var startersCmd = &cobra.Command{
	Use:     "starters",
	Short:   "Ask the provider for conversation openers",
	Example: `  asimov-demo starters -l Spanish --level beginner --topics "travel, food"`,
	Args:    cobra.NoArgs,
	RunE:    runStarters,
}

func init() {
	startersCmd.Flags().StringVar(&startersTopics, "topics", "", "comma separated topics")
}

func runStarters(cmd *cobra.Command, _ []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(store)
	if err != nil {
		return err
	}

	result, err := orch.GenerateConversationStarters(cmd.Context(),
		orchestrator.StarterContext{Language: language, Level: level, Topics: startersTopics},
		completionOptions())
	if err != nil {
		return err
	}

	printReply(cmd.OutOrStdout(), result)
	return nil
}
