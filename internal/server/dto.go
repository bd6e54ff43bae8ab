package server

import (
	"fmt"
	"time"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

const (
	minTemperature = 0.0
	maxTemperature = 2.0
	minMaxTokens   = 1
	maxMaxTokens   = 4000
)

// MessageDTO is one conversation turn on the wire.
type MessageDTO struct {
	Role      string     `json:"role" example:"user"`
	Content   string     `json:"content" example:"Hola, ¿cómo estás?"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ChatRequest is the body of the chat, tutor and conversation-partner endpoints.
type ChatRequest struct {
	Messages     []MessageDTO `json:"messages"`
	SystemPrompt string       `json:"systemPrompt,omitempty"`
	Temperature  *float64     `json:"temperature,omitempty" example:"0.7"`
	MaxTokens    *int         `json:"maxTokens,omitempty" example:"1000"`
	Model        string       `json:"model,omitempty" example:"gpt-4o-mini"`
	Provider     string       `json:"provider,omitempty" example:"openai"`
}

// AnalyzeRequest is the body of POST /v1/ai/analyze.
type AnalyzeRequest struct {
	Text         string `json:"text" example:"I are fine."`
	AnalysisType string `json:"analysisType" example:"grammar"`
	Model        string `json:"model,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

// StartersRequest is the body of POST /v1/ai/conversation-starters.
type StartersRequest struct {
	Language string `json:"language,omitempty" example:"Spanish"`
	Level    string `json:"level,omitempty" example:"beginner"`
	Topics   string `json:"topics,omitempty" example:"travel, food"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// ModelsResponse lists the static model catalog of one provider.
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

// ValidateResponse reports whether a provider answered a minimal completion.
type ValidateResponse struct {
	Provider string `json:"provider"`
	Valid    bool   `json:"valid"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status          string   `json:"status"`
	DefaultProvider string   `json:"defaultProvider"`
	Providers       []string `json:"providers"`
}

func (r *ChatRequest) options() core.CompletionOptions {
	return core.CompletionOptions{
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
		Model:       r.Model,
		Provider:    r.Provider,
	}
}

// validate checks the body shared by all chat-style endpoints.
func (r *ChatRequest) validate() error {
	if len(r.Messages) == 0 {
		return core.NewInvalidRequestError("messages must not be empty", nil)
	}
	for i, m := range r.Messages {
		if !core.Role(m.Role).Valid() {
			return core.NewInvalidRequestError(fmt.Sprintf("messages[%d]: invalid role %q", i, m.Role), nil)
		}
		if m.Content == "" {
			return core.NewInvalidRequestError(fmt.Sprintf("messages[%d]: content must not be empty", i), nil)
		}
		if i > 0 && core.Role(m.Role) == core.RoleSystem {
			return core.NewInvalidRequestError(fmt.Sprintf("messages[%d]: a system message is only allowed first", i), nil)
		}
	}
	return validateSampling(r.Temperature, r.MaxTokens)
}

func validateSampling(temperature *float64, maxTokens *int) error {
	if temperature != nil && (*temperature < minTemperature || *temperature > maxTemperature) {
		return core.NewInvalidRequestError(
			fmt.Sprintf("temperature must be between %g and %g", minTemperature, maxTemperature), nil)
	}
	if maxTokens != nil && (*maxTokens < minMaxTokens || *maxTokens > maxMaxTokens) {
		return core.NewInvalidRequestError(
			fmt.Sprintf("maxTokens must be between %d and %d", minMaxTokens, maxMaxTokens), nil)
	}
	return nil
}

func (r *ChatRequest) coreMessages() []core.Message {
	out := make([]core.Message, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = core.Message{Role: core.Role(m.Role), Content: m.Content, Timestamp: m.Timestamp}
	}
	return out
}

// splitTurn returns the trailing user message and the history before it.
func (r *ChatRequest) splitTurn() (string, []core.Message, error) {
	msgs := r.coreMessages()
	last := msgs[len(msgs)-1]
	if last.Role != core.RoleUser {
		return "", nil, core.NewInvalidRequestError("the last message must be a user message", nil)
	}
	return last.Content, msgs[:len(msgs)-1], nil
}

func (r *AnalyzeRequest) validate() error {
	if r.Text == "" {
		return core.NewInvalidRequestError("text must not be empty", nil)
	}
	if !core.AnalysisType(r.AnalysisType).Valid() {
		return core.NewInvalidRequestError(
			fmt.Sprintf("analysisType must be one of grammar, style, vocabulary; got %q", r.AnalysisType), nil)
	}
	return nil
}
