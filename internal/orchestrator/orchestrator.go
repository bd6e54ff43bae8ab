// Package orchestrator selects a provider for each request and assembles the
// tutor, conversation partner, analysis and starter prompts from the template catalog.
package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
)

const (
	TutorHistoryWindow   = 10
	PartnerHistoryWindow = 8

	PartnerTemperature  = 0.8
	StarterTemperature  = 0.8
	AnalysisTemperature = 0.3

	msgGenerationFailed = "failed to generate response"
	msgAnalysisFailed   = "failed to analyze text"
)

// Operation names reported to the UsageRecorder.
const (
	OpChat         = "chat"
	OpTutor        = "tutor"
	OpPartner      = "conversation_partner"
	OpAnalyze      = "analyze"
	OpStarters     = "conversation_starters"
	OpQuickAnalyze = "quick_analyze"
)

var analysisTemplates = map[core.AnalysisType]string{
	core.AnalysisGrammar:    prompts.TemplateGrammarCorrection,
	core.AnalysisStyle:      prompts.TemplateStyleImprovement,
	core.AnalysisVocabulary: prompts.TemplateVocabularyAnalysis,
}

// UsageRecorder receives every successful completion.
type UsageRecorder interface {
	RecordCompletion(ctx context.Context, operation string, result *core.CompletionResult)
}

// Config holds the orchestrator dependencies.
type Config struct {
	Providers       map[string]core.Provider
	DefaultProvider string
	Templates       *prompts.Store
	// Models is the static model catalog per provider id.
	Models   map[string][]string
	Recorder UsageRecorder
}

// Orchestrator is safe for concurrent use; it holds no per-request state.
type Orchestrator struct {
	providers       map[string]core.Provider
	defaultProvider string
	templates       *prompts.Store
	models          map[string][]string
	recorder        UsageRecorder
}

// TutorContext describes the learner for tutor and partner conversations.
type TutorContext struct {
	Language       string
	Level          string
	UserID         string
	ConversationID string
}

// AnalysisContext describes the learner for text analysis.
type AnalysisContext struct {
	Language string
	Level    string
}

// StarterContext describes the requested conversation starters.
type StarterContext struct {
	Language string
	Level    string
	Topics   string
}

// New creates an orchestrator. The default provider must be among cfg.Providers.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Templates == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if _, ok := cfg.Providers[cfg.DefaultProvider]; !ok {
		return nil, core.NewUnsupportedProviderError(cfg.DefaultProvider)
	}

	o := &Orchestrator{
		providers:       make(map[string]core.Provider, len(cfg.Providers)),
		defaultProvider: cfg.DefaultProvider,
		templates:       cfg.Templates,
		models:          make(map[string][]string, len(cfg.Models)),
		recorder:        cfg.Recorder,
	}
	for id, p := range cfg.Providers {
		o.providers[id] = p
	}
	for id, m := range cfg.Models {
		o.models[id] = append([]string(nil), m...)
	}
	return o, nil
}

// DefaultProvider returns the provider id used when a request names none.
func (o *Orchestrator) DefaultProvider() string {
	return o.defaultProvider
}

// Providers returns the configured provider ids, sorted.
func (o *Orchestrator) Providers() []string {
	ids := make([]string, 0, len(o.providers))
	for id := range o.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (o *Orchestrator) provider(id string) (core.Provider, error) {
	if id == "" {
		id = o.defaultProvider
	}
	p, ok := o.providers[id]
	if !ok {
		return nil, core.NewUnsupportedProviderError(id)
	}
	return p, nil
}

// run dispatches call to the provider named by providerID and applies the error policy:
// caller errors pass through, everything else becomes an opaque generation_failed error.
func (o *Orchestrator) run(ctx context.Context, op, providerID, failMsg string, call func(core.Provider) (*core.CompletionResult, error)) (*core.CompletionResult, error) {
	p, err := o.provider(providerID)
	if err != nil {
		return nil, err
	}

	result, err := call(p)
	if err != nil {
		if core.IsCallerError(err) {
			return nil, err
		}
		core.Logger(ctx).Error("AI response generation failed",
			"operation", op,
			"provider", p.Name(),
			"error", err,
			"stack", string(debug.Stack()),
		)
		return nil, core.NewGenerationFailedError(failMsg, err)
	}

	if o.recorder != nil {
		o.recorder.RecordCompletion(ctx, op, result)
	}
	return result, nil
}

// GenerateChatResponse forwards msgs unchanged to the requested or default provider.
func (o *Orchestrator) GenerateChatResponse(ctx context.Context, msgs []core.Message, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return o.run(ctx, OpChat, opts.Provider, msgGenerationFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Complete(ctx, msgs, opts)
	})
}

// GenerateChatWithSystemPrompt is GenerateChatResponse with systemPrompt prepended when non-empty.
func (o *Orchestrator) GenerateChatWithSystemPrompt(ctx context.Context, msgs []core.Message, systemPrompt string, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return o.run(ctx, OpChat, opts.Provider, msgGenerationFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Chat(ctx, msgs, systemPrompt, opts)
	})
}

// GenerateTutorResponse answers userMessage as a language tutor. The provider receives the
// rendered tutor prompt, the last TutorHistoryWindow history messages and userMessage.
func (o *Orchestrator) GenerateTutorResponse(ctx context.Context, userMessage string, history []core.Message, tc TutorContext, opts core.CompletionOptions) (*core.CompletionResult, error) {
	msgs, err := o.conversation(prompts.TemplateConversationTutor, userMessage, history, tc, TutorHistoryWindow)
	if err != nil {
		return nil, err
	}
	return o.run(ctx, OpTutor, opts.Provider, msgGenerationFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Complete(ctx, msgs, opts)
	})
}

// GenerateConversationPartnerResponse answers userMessage as a casual conversation partner
// using the last PartnerHistoryWindow history messages. Temperature is always PartnerTemperature.
func (o *Orchestrator) GenerateConversationPartnerResponse(ctx context.Context, userMessage string, history []core.Message, tc TutorContext, opts core.CompletionOptions) (*core.CompletionResult, error) {
	msgs, err := o.conversation(prompts.TemplateConversationFriend, userMessage, history, tc, PartnerHistoryWindow)
	if err != nil {
		return nil, err
	}
	forced := opts.WithTemperature(PartnerTemperature)
	return o.run(ctx, OpPartner, opts.Provider, msgGenerationFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Complete(ctx, msgs, forced)
	})
}

func (o *Orchestrator) conversation(templateID, userMessage string, history []core.Message, tc TutorContext, window int) ([]core.Message, error) {
	systemPrompt, err := o.templates.Render(templateID, prompts.RenderContext{
		Language:            tc.Language,
		Level:               tc.Level,
		UserMessage:         userMessage,
		ConversationHistory: history,
		UserID:              tc.UserID,
		ConversationID:      tc.ConversationID,
	})
	if err != nil {
		return nil, err
	}

	// The rendered prompt is the only system message the provider sees.
	recent := core.LastN(core.WithoutSystem(history), window)
	msgs := make([]core.Message, 0, len(recent)+2)
	msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	msgs = append(msgs, recent...)
	msgs = append(msgs, core.Message{Role: core.RoleUser, Content: userMessage})
	return msgs, nil
}

// AnalyzeText renders the catalog template for analysisType around text and sends it as a
// single user message. Temperature is always AnalysisTemperature.
func (o *Orchestrator) AnalyzeText(ctx context.Context, text string, analysisType core.AnalysisType, ac AnalysisContext, opts core.CompletionOptions) (*core.CompletionResult, error) {
	templateID, ok := analysisTemplates[analysisType]
	if !ok {
		return nil, core.NewInvalidRequestError(fmt.Sprintf("unsupported analysis type: %s", analysisType), nil)
	}

	prompt, err := o.templates.Render(templateID, prompts.RenderContext{
		Language:    ac.Language,
		Level:       ac.Level,
		UserMessage: text,
	})
	if err != nil {
		return nil, err
	}

	msgs := []core.Message{{Role: core.RoleUser, Content: prompt}}
	forced := opts.WithTemperature(AnalysisTemperature)
	return o.run(ctx, OpAnalyze, opts.Provider, msgAnalysisFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Complete(ctx, msgs, forced)
	})
}

// QuickAnalyze asks the provider for an analysis with its built-in instruction,
// bypassing the template catalog.
func (o *Orchestrator) QuickAnalyze(ctx context.Context, text string, analysisType core.AnalysisType, opts core.CompletionOptions) (*core.CompletionResult, error) {
	return o.run(ctx, OpQuickAnalyze, opts.Provider, msgAnalysisFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Analyze(ctx, text, analysisType, opts)
	})
}

// GenerateConversationStarters asks for openers on sc.Topics. Temperature is always StarterTemperature.
func (o *Orchestrator) GenerateConversationStarters(ctx context.Context, sc StarterContext, opts core.CompletionOptions) (*core.CompletionResult, error) {
	rc := prompts.RenderContext{Language: sc.Language, Level: sc.Level}
	if sc.Topics != "" {
		rc.AdditionalContext = map[string]string{"topics": sc.Topics}
	}
	prompt, err := o.templates.Render(prompts.TemplateConversationStarter, rc)
	if err != nil {
		return nil, err
	}

	msgs := []core.Message{{Role: core.RoleUser, Content: prompt}}
	forced := opts.WithTemperature(StarterTemperature)
	return o.run(ctx, OpStarters, opts.Provider, msgGenerationFailed, func(p core.Provider) (*core.CompletionResult, error) {
		return p.Complete(ctx, msgs, forced)
	})
}

// GetAvailableModels returns the static model list of provider, or of the default provider
// when provider is empty. Unknown providers yield an empty list.
func (o *Orchestrator) GetAvailableModels(provider string) []string {
	if provider == "" {
		provider = o.defaultProvider
	}
	models := o.models[provider]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// ValidateProviderConnection sends a minimal completion and reports whether it succeeded.
// It never returns an error or panics; failures are logged.
func (o *Orchestrator) ValidateProviderConnection(ctx context.Context, provider string) (ok bool) {
	logger := core.Logger(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("provider validation panicked", "provider", provider, "panic", r)
			ok = false
		}
	}()

	p, err := o.provider(provider)
	if err != nil {
		logger.Warn("provider validation failed", "provider", provider, "error", err)
		return false
	}

	opts := core.CompletionOptions{MaxTokens: core.IntPtr(10), Temperature: core.Float64Ptr(0)}
	if _, err := p.Complete(ctx, []core.Message{{Role: core.RoleUser, Content: "Hello"}}, opts); err != nil {
		logger.Warn("provider validation failed", "provider", p.Name(), "error", err)
		return false
	}
	return true
}
