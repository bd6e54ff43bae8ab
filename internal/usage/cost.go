package usage

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

// CostResult holds the cost breakdown of one completion.
type CostResult struct {
	InputCost  float64
	OutputCost float64
	TotalCost  float64
	// Caveat is set when the cost could not be computed.
	Caveat string
}

// Calculate prices u for model. An unknown model yields a zero cost and a caveat.
func (t *PriceTable) Calculate(model string, u core.Usage) CostResult {
	pricing, ok := t.Lookup(model)
	if !ok {
		return CostResult{Caveat: fmt.Sprintf("no pricing for model %q", model)}
	}

	input := float64(u.PromptTokens) / 1_000_000 * pricing.InputPerMtok
	output := float64(u.CompletionTokens) / 1_000_000 * pricing.OutputPerMtok

	return CostResult{
		InputCost:  round6(input),
		OutputCost: round6(output),
		TotalCost:  round6(input + output),
	}
}

// Cost returns the total USD cost of u for model, rounded to six decimals.
// Unknown models cost 0 and log a warning.
func (t *PriceTable) Cost(model string, u core.Usage) float64 {
	result := t.Calculate(model, u)
	if result.Caveat != "" {
		slog.Warn("cost calculation skipped", "model", model, "reason", result.Caveat)
	}
	return result.TotalCost
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
