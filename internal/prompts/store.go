// Package prompts owns the prompt template catalog and renders templates
// against a per-request context.
package prompts

import (
	"sync"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

// Category groups templates by purpose.
type Category string

const (
	CategoryConversation Category = "conversation"
	CategoryCorrection   Category = "correction"
	CategoryAnalysis     Category = "analysis"
	CategorySystem       Category = "system"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConversation, CategoryCorrection, CategoryAnalysis, CategorySystem:
		return true
	}
	return false
}

// PromptTemplate is a parametrized prompt with {{variable}} placeholders.
// Every placeholder in Template is expected to appear in Variables; see Validate.
type PromptTemplate struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Template    string   `json:"template" yaml:"template"`
	Variables   []string `json:"variables" yaml:"variables"`
	Category    Category `json:"category" yaml:"category"`
}

// RenderContext holds the named values available to one render call.
type RenderContext struct {
	Language            string
	Level               string
	UserMessage         string
	ConversationHistory []core.Message
	UserID              string
	ConversationID      string
	AdditionalContext   map[string]string
}

// Store is the single source of truth for prompt templates.
// It is safe for concurrent use; in practice it is written at startup and read afterwards.
type Store struct {
	mu        sync.RWMutex
	templates map[string]PromptTemplate
	order     []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{templates: make(map[string]PromptTemplate)}
}

// NewDefaultStore creates a store seeded with the built-in catalog.
func NewDefaultStore() *Store {
	s := NewStore()
	for _, t := range DefaultTemplates() {
		s.Register(t)
	}
	return s
}

// Register inserts t or overwrites the template with the same id.
// An overwritten template keeps its original position. Register does not validate.
func (s *Store) Register(t PromptTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.templates[t.ID] = cloneTemplate(t)
}

// Get returns the template registered under id.
func (s *Store) Get(id string) (PromptTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return PromptTemplate{}, false
	}
	return cloneTemplate(t), true
}

// ListByCategory returns all templates of category c in insertion order.
func (s *Store) ListByCategory(c Category) []PromptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]PromptTemplate, 0)
	for _, id := range s.order {
		if t := s.templates[id]; t.Category == c {
			result = append(result, cloneTemplate(t))
		}
	}
	return result
}

// List returns every template in insertion order.
func (s *Store) List() []PromptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]PromptTemplate, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, cloneTemplate(s.templates[id]))
	}
	return result
}

// Len returns the number of registered templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// cloneTemplate copies the Variables slice so callers cannot mutate stored state.
func cloneTemplate(t PromptTemplate) PromptTemplate {
	if t.Variables != nil {
		vars := make([]string, len(t.Variables))
		copy(vars, t.Variables)
		t.Variables = vars
	}
	return t
}

// IDs returns the registered template ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}
