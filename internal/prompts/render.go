package prompts

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

const (
	defaultLanguage = "English"
	defaultLevel    = "intermediate"
	defaultTopics   = "daily life, hobbies, travel, and food"

	// historyWindow is the number of trailing messages rendered into a prompt.
	historyWindow = 5

	// NoHistorySentence replaces conversationHistory when there is nothing to show.
	NoHistorySentence = "No previous conversation history."
)

// wellKnown resolves the variables that RenderContext carries explicitly.
// They take priority over AdditionalContext.
var wellKnown = map[string]func(RenderContext) (string, bool){
	"language": func(c RenderContext) (string, bool) {
		return orDefault(c.Language, defaultLanguage), true
	},
	"level": func(c RenderContext) (string, bool) {
		return orDefault(c.Level, defaultLevel), true
	},
	"userMessage": userMessage,
	"text":        userMessage,
	"conversationHistory": func(c RenderContext) (string, bool) {
		return FormatHistory(c.ConversationHistory), true
	},
	"topics": func(c RenderContext) (string, bool) {
		return orDefault(c.AdditionalContext["topics"], defaultTopics), true
	},
}

var renderPattern = regexp.MustCompile(`\{\{([^{}\s]+)\}\}`)

func userMessage(c RenderContext) (string, bool) {
	return c.UserMessage, c.UserMessage != ""
}

// Render substitutes every declared variable of template id with its resolved value.
// Unresolvable variables become the empty string; Render never validates the template.
func (s *Store) Render(id string, rc RenderContext) (string, error) {
	t, ok := s.Get(id)
	if !ok {
		return "", core.NewTemplateNotFoundError(id)
	}

	values := make(map[string]string, len(t.Variables))
	for _, name := range t.Variables {
		values[name] = resolve(name, rc)
	}
	// One pass over the template: substituted values are never scanned again.
	out := renderPattern.ReplaceAllStringFunc(t.Template, func(match string) string {
		if v, ok := values[match[2:len(match)-2]]; ok {
			return v
		}
		return match
	})

	slog.Debug("prompt rendered",
		"template", id,
		"length", len(out),
		"fingerprint", xxhash.Sum64String(out),
		"conversation_id", rc.ConversationID,
	)
	return out, nil
}

func resolve(name string, rc RenderContext) string {
	if fn, ok := wellKnown[name]; ok {
		if v, ok := fn(rc); ok {
			return v
		}
	}
	if v, ok := rc.AdditionalContext[name]; ok {
		return v
	}
	return ""
}

// FormatHistory renders the trailing messages of history as a Student/Tutor transcript.
func FormatHistory(history []core.Message) string {
	if len(history) == 0 {
		return NoHistorySentence
	}

	recent := core.LastN(history, historyWindow)
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		speaker := "Tutor"
		if m.Role == core.RoleUser {
			speaker = "Student"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
