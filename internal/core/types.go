package core

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single turn in a conversation.
// Timestamp is informational only and is never forwarded to a provider.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// CompletionOptions holds per-call sampling overrides.
// Nil or empty fields fall back to the adapter defaults.
type CompletionOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	Model       string   `json:"model,omitempty"`
	Provider    string   `json:"provider,omitempty"`
}

// WithTemperature returns a copy of the options with Temperature set to t.
// The caller's options are never mutated.
func (o CompletionOptions) WithTemperature(t float64) CompletionOptions {
	o.Temperature = &t
	return o
}

// WithMaxTokens returns a copy of the options with MaxTokens set to n.
func (o CompletionOptions) WithMaxTokens(n int) CompletionOptions {
	o.MaxTokens = &n
	return o
}

// CompletionResult is the provider-neutral completion returned to callers.
type CompletionResult struct {
	Content      string   `json:"content"`
	Model        string   `json:"model"`
	FinishReason string   `json:"finishReason,omitempty"`
	Usage        *Usage   `json:"usage,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// AnalysisType selects which text analysis a provider performs.
type AnalysisType string

const (
	AnalysisGrammar    AnalysisType = "grammar"
	AnalysisStyle      AnalysisType = "style"
	AnalysisVocabulary AnalysisType = "vocabulary"
)

// Valid reports whether a is a supported analysis type.
func (a AnalysisType) Valid() bool {
	switch a {
	case AnalysisGrammar, AnalysisStyle, AnalysisVocabulary:
		return true
	}
	return false
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
