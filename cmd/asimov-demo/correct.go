package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/correction"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/orchestrator"
)

var (
	correctType  string
	correctQuick bool
)

var correctCmd = &cobra.Command{
	Use:   "correct <text>",
	Short: "Analyze a sentence and extract the suggested correction",
	Long: `correct sends text to the configured provider for analysis and runs the
correction extractor over the reply. The extracted fields are a best-effort
reading of free-form model output.`,
	Example: `  asimov-demo correct "I are fine."
  asimov-demo correct "Je suis allé au magasin hier soir" -l French --type style`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrect,
}

func init() {
	correctCmd.Flags().StringVarP(&correctType, "type", "t", string(core.AnalysisGrammar), "grammar, style or vocabulary")
	correctCmd.Flags().BoolVar(&correctQuick, "quick", false, "use the provider's built-in analysis instruction instead of the catalog template")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	analysisType := core.AnalysisType(correctType)
	if !analysisType.Valid() {
		return fmt.Errorf("unknown analysis type %q", correctType)
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(store)
	if err != nil {
		return err
	}

	text := args[0]
	ctx := cmd.Context()
	var result *core.CompletionResult
	if correctQuick {
		result, err = orch.QuickAnalyze(ctx, text, analysisType, completionOptions())
	} else {
		result, err = orch.AnalyzeText(ctx, text, analysisType,
			orchestrator.AnalysisContext{Language: language, Level: level}, completionOptions())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReply(out, result)
	printCorrection(out, text, correction.Extract(result.Content, text))
	return nil
}

func printReply(out io.Writer, result *core.CompletionResult) {
	_, _ = fmt.Fprintln(out, colorBold.Sprint("Reply"))
	_, _ = fmt.Fprintln(out, result.Content)
	meta := fmt.Sprintf("%s / %s", result.Provider, result.Model)
	if result.Usage != nil {
		meta += fmt.Sprintf(" / %d tokens", result.Usage.TotalTokens)
	}
	if result.Cost != nil {
		meta += fmt.Sprintf(" / $%.6f", *result.Cost)
	}
	_, _ = fmt.Fprintln(out, colorFaint.Sprint(meta))
	_, _ = fmt.Fprintln(out)
}

func printCorrection(out io.Writer, original string, r correction.Result) {
	_, _ = fmt.Fprintln(out, colorBold.Sprint("Extracted"))
	if !r.HasErrors {
		_, _ = fmt.Fprintf(out, "%s %s\n", colorGreen.Sprint("✓"), r.Explanation)
		return
	}

	_, _ = fmt.Fprintf(out, "%s %s\n", colorRed.Sprint("original: "), original)
	_, _ = fmt.Fprintf(out, "%s %s\n", colorGreen.Sprint("corrected:"), r.CorrectedText)
	for _, e := range r.Errors {
		_, _ = fmt.Fprintf(out, "  %s %s\n", colorYellow.Sprint("-"), e)
	}
	if r.Explanation == correction.NotExtracted || r.Explanation == correction.Unavailable {
		_, _ = fmt.Fprintln(out, colorFaint.Sprint(r.Explanation))
	}
}
