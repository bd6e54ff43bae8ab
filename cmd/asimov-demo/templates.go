package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
)

var (
	colorBold   = color.New(color.Bold)
	colorCyan   = color.New(color.FgCyan)
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
	colorRed    = color.New(color.FgRed)
	colorFaint  = color.New(color.Faint)
)

var templatesCategory string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the prompt template catalog",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringVarP(&templatesCategory, "category", "c", "",
		"only list one category (conversation, correction, analysis, system)")
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	list := store.List()
	if templatesCategory != "" {
		category := prompts.Category(templatesCategory)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q", templatesCategory)
		}
		list = store.ListByCategory(category)
	}

	out := cmd.OutOrStdout()
	for _, t := range list {
		_, _ = fmt.Fprintf(out, "%s  %s\n", colorBold.Sprint(t.ID), colorFaint.Sprintf("[%s]", t.Category))
		_, _ = fmt.Fprintf(out, "    %s\n", t.Name)
		_, _ = fmt.Fprintf(out, "    variables: %s\n", colorCyan.Sprint(strings.Join(t.Variables, ", ")))
		if problems := prompts.Validate(t); len(problems) > 0 {
			for _, p := range problems {
				_, _ = fmt.Fprintf(out, "    %s %s\n", colorYellow.Sprint("warning:"), p)
			}
		}
	}
	_, _ = fmt.Fprintf(out, "\n%d template(s)\n", len(list))
	return nil
}
