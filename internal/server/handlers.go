package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/orchestrator"
	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/prompts"
)

// AIService is the orchestrator surface the handlers depend on.
type AIService interface {
	GenerateChatResponse(ctx context.Context, msgs []core.Message, opts core.CompletionOptions) (*core.CompletionResult, error)
	GenerateChatWithSystemPrompt(ctx context.Context, msgs []core.Message, systemPrompt string, opts core.CompletionOptions) (*core.CompletionResult, error)
	GenerateTutorResponse(ctx context.Context, userMessage string, history []core.Message, tc orchestrator.TutorContext, opts core.CompletionOptions) (*core.CompletionResult, error)
	GenerateConversationPartnerResponse(ctx context.Context, userMessage string, history []core.Message, tc orchestrator.TutorContext, opts core.CompletionOptions) (*core.CompletionResult, error)
	AnalyzeText(ctx context.Context, text string, analysisType core.AnalysisType, ac orchestrator.AnalysisContext, opts core.CompletionOptions) (*core.CompletionResult, error)
	GenerateConversationStarters(ctx context.Context, sc orchestrator.StarterContext, opts core.CompletionOptions) (*core.CompletionResult, error)
	GetAvailableModels(provider string) []string
	ValidateProviderConnection(ctx context.Context, provider string) bool
	DefaultProvider() string
	Providers() []string
}

// TemplateLister exposes the template catalog read-only.
type TemplateLister interface {
	List() []prompts.PromptTemplate
	ListByCategory(category prompts.Category) []prompts.PromptTemplate
}

// Handler holds the HTTP handlers
type Handler struct {
	svc       AIService
	templates TemplateLister
}

// NewHandler creates a new handler backed by svc and templates.
func NewHandler(svc AIService, templates TemplateLister) *Handler {
	return &Handler{
		svc:       svc,
		templates: templates,
	}
}

func bindChat(c echo.Context) (*ChatRequest, error) {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return nil, core.NewInvalidRequestError("invalid request body: "+err.Error(), err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

func tutorContext(c echo.Context) orchestrator.TutorContext {
	return orchestrator.TutorContext{
		Language:       c.QueryParam("language"),
		Level:          c.QueryParam("level"),
		UserID:         c.QueryParam("userId"),
		ConversationID: c.QueryParam("conversationId"),
	}
}

// Chat handles POST /v1/ai/chat
//
// @Summary      Generate a chat completion
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      ChatRequest  true  "Conversation and sampling options"
// @Success      200      {object}  core.CompletionResult
// @Failure      400      {object}  core.GatewayError
// @Failure      429      {object}  core.GatewayError
// @Failure      500      {object}  core.GatewayError
// @Router       /v1/ai/chat [post]
func (h *Handler) Chat(c echo.Context) error {
	req, err := bindChat(c)
	if err != nil {
		return handleError(c, err)
	}

	ctx := c.Request().Context()
	var result *core.CompletionResult
	if req.SystemPrompt != "" {
		result, err = h.svc.GenerateChatWithSystemPrompt(ctx, req.coreMessages(), req.SystemPrompt, req.options())
	} else {
		result, err = h.svc.GenerateChatResponse(ctx, req.coreMessages(), req.options())
	}
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Tutor handles POST /v1/ai/tutor
//
// @Summary      Answer as a language tutor
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request         body      ChatRequest  true   "History followed by the learner's message"
// @Param        language        query     string       false  "Target language (default English)"
// @Param        level           query     string       false  "Learner level (default intermediate)"
// @Param        userId          query     string       false  "Learner id"
// @Param        conversationId  query     string       false  "Conversation id"
// @Success      200             {object}  core.CompletionResult
// @Failure      400             {object}  core.GatewayError
// @Failure      500             {object}  core.GatewayError
// @Router       /v1/ai/tutor [post]
func (h *Handler) Tutor(c echo.Context) error {
	return h.conversation(c, h.svc.GenerateTutorResponse)
}

// ConversationPartner handles POST /v1/ai/conversation-partner
//
// @Summary      Answer as a casual conversation partner
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request         body      ChatRequest  true   "History followed by the learner's message"
// @Param        language        query     string       false  "Target language (default English)"
// @Param        level           query     string       false  "Learner level (default intermediate)"
// @Param        userId          query     string       false  "Learner id"
// @Param        conversationId  query     string       false  "Conversation id"
// @Success      200             {object}  core.CompletionResult
// @Failure      400             {object}  core.GatewayError
// @Failure      500             {object}  core.GatewayError
// @Router       /v1/ai/conversation-partner [post]
func (h *Handler) ConversationPartner(c echo.Context) error {
	return h.conversation(c, h.svc.GenerateConversationPartnerResponse)
}

type conversationFunc func(ctx context.Context, userMessage string, history []core.Message, tc orchestrator.TutorContext, opts core.CompletionOptions) (*core.CompletionResult, error)

func (h *Handler) conversation(c echo.Context, generate conversationFunc) error {
	req, err := bindChat(c)
	if err != nil {
		return handleError(c, err)
	}
	userMessage, history, err := req.splitTurn()
	if err != nil {
		return handleError(c, err)
	}

	result, err := generate(c.Request().Context(), userMessage, history, tutorContext(c), req.options())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Analyze handles POST /v1/ai/analyze
//
// @Summary      Analyze a learner's text
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request   body      AnalyzeRequest  true   "Text and analysis type"
// @Param        language  query     string          false  "Language of the text (default English)"
// @Param        level     query     string          false  "Learner level (default intermediate)"
// @Success      200       {object}  core.CompletionResult
// @Failure      400       {object}  core.GatewayError
// @Failure      500       {object}  core.GatewayError
// @Router       /v1/ai/analyze [post]
func (h *Handler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if err := req.validate(); err != nil {
		return handleError(c, err)
	}

	ac := orchestrator.AnalysisContext{
		Language: c.QueryParam("language"),
		Level:    c.QueryParam("level"),
	}
	opts := core.CompletionOptions{Model: req.Model, Provider: req.Provider}

	result, err := h.svc.AnalyzeText(c.Request().Context(), req.Text, core.AnalysisType(req.AnalysisType), ac, opts)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ConversationStarters handles POST /v1/ai/conversation-starters
//
// @Summary      Suggest conversation openers
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      StartersRequest  false  "Language, level and topics"
// @Success      200      {object}  core.CompletionResult
// @Failure      400      {object}  core.GatewayError
// @Failure      500      {object}  core.GatewayError
// @Router       /v1/ai/conversation-starters [post]
func (h *Handler) ConversationStarters(c echo.Context) error {
	var req StartersRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	sc := orchestrator.StarterContext{Language: req.Language, Level: req.Level, Topics: req.Topics}
	opts := core.CompletionOptions{Model: req.Model, Provider: req.Provider}

	result, err := h.svc.GenerateConversationStarters(c.Request().Context(), sc, opts)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Models handles GET /v1/ai/models
//
// @Summary      List the models of a provider
// @Tags         ai
// @Produce      json
// @Param        provider  query     string  false  "Provider id (default provider when omitted)"
// @Success      200       {object}  ModelsResponse
// @Router       /v1/ai/models [get]
func (h *Handler) Models(c echo.Context) error {
	provider := c.QueryParam("provider")
	if provider == "" {
		provider = h.svc.DefaultProvider()
	}
	return c.JSON(http.StatusOK, ModelsResponse{
		Provider: provider,
		Models:   h.svc.GetAvailableModels(provider),
	})
}

// ValidateProvider handles GET /v1/ai/providers/validate
//
// @Summary      Check that a provider answers
// @Tags         ai
// @Produce      json
// @Param        provider  query     string  false  "Provider id (default provider when omitted)"
// @Success      200       {object}  ValidateResponse
// @Router       /v1/ai/providers/validate [get]
func (h *Handler) ValidateProvider(c echo.Context) error {
	provider := c.QueryParam("provider")
	if provider == "" {
		provider = h.svc.DefaultProvider()
	}
	return c.JSON(http.StatusOK, ValidateResponse{
		Provider: provider,
		Valid:    h.svc.ValidateProviderConnection(c.Request().Context(), provider),
	})
}

// Templates handles GET /v1/templates
//
// @Summary      List prompt templates
// @Tags         templates
// @Produce      json
// @Param        category  query     string  false  "conversation, correction, analysis or system"
// @Success      200       {array}   prompts.PromptTemplate
// @Failure      400       {object}  core.GatewayError
// @Router       /v1/templates [get]
func (h *Handler) Templates(c echo.Context) error {
	category := prompts.Category(c.QueryParam("category"))
	if category == "" {
		return c.JSON(http.StatusOK, h.templates.List())
	}
	if !category.Valid() {
		return handleError(c, core.NewInvalidRequestError("unknown template category: "+string(category), nil))
	}
	return c.JSON(http.StatusOK, h.templates.ListByCategory(category))
}

// Health handles GET /health
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:          "ok",
		DefaultProvider: h.svc.DefaultProvider(),
		Providers:       h.svc.Providers(),
	})
}

// handleError converts gateway errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var gatewayErr *core.GatewayError
	if errors.As(err, &gatewayErr) {
		return c.JSON(gatewayErr.HTTPStatusCode(), gatewayErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
