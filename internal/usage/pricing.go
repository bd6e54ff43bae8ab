// Package usage prices completions from token counts.
package usage

import (
	"regexp"
	"sort"
)

// ModelPricing holds USD rates per million tokens.
type ModelPricing struct {
	InputPerMtok  float64 `json:"input_per_mtok" yaml:"input_per_mtok"`
	OutputPerMtok float64 `json:"output_per_mtok" yaml:"output_per_mtok"`
}

// DefaultPrices is the built-in catalog of model rates.
var DefaultPrices = map[string]ModelPricing{
	"gpt-4o":            {InputPerMtok: 2.5, OutputPerMtok: 10},
	"gpt-4o-mini":       {InputPerMtok: 0.15, OutputPerMtok: 0.6},
	"gpt-4-turbo":       {InputPerMtok: 10, OutputPerMtok: 30},
	"gpt-3.5-turbo":     {InputPerMtok: 0.5, OutputPerMtok: 1.5},
	"claude-sonnet-4-5": {InputPerMtok: 3, OutputPerMtok: 15},
	"claude-3-5-haiku":  {InputPerMtok: 0.8, OutputPerMtok: 4},
}

// PriceTable resolves pricing for a model name. It is immutable after construction.
type PriceTable struct {
	prices map[string]ModelPricing
	// names sorted longest first, then alphabetically.
	names []string
}

// NewPriceTable builds a table from prices. The map is copied.
func NewPriceTable(prices map[string]ModelPricing) *PriceTable {
	t := &PriceTable{
		prices: make(map[string]ModelPricing, len(prices)),
		names:  make([]string, 0, len(prices)),
	}
	for name, p := range prices {
		t.prices[name] = p
		t.names = append(t.names, name)
	}
	sort.Slice(t.names, func(i, j int) bool {
		if len(t.names[i]) != len(t.names[j]) {
			return len(t.names[i]) > len(t.names[j])
		}
		return t.names[i] < t.names[j]
	})
	return t
}

// DefaultPriceTable returns a table over DefaultPrices.
func DefaultPriceTable() *PriceTable {
	return NewPriceTable(DefaultPrices)
}

// snapshotSuffix matches the version suffix providers append to a base model
// name: a date (gpt-4o-mini-2024-07-18, claude-3-5-haiku-20241022) or "latest".
var snapshotSuffix = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2}|\d{8}|latest)$`)

// Lookup returns pricing for model by exact name, then for a snapshot of a
// catalog model. Any other name, including siblings that merely share a
// catalog prefix (gpt-4o-audio-preview), is not found.
func (t *PriceTable) Lookup(model string) (ModelPricing, bool) {
	if p, ok := t.prices[model]; ok {
		return p, true
	}
	if m := snapshotSuffix.FindStringSubmatch(model); m != nil {
		if p, ok := t.prices[m[1]]; ok {
			return p, true
		}
	}
	return ModelPricing{}, false
}

// Models returns the priced model names, longest first.
func (t *PriceTable) Models() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
