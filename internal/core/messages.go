package core

import "strings"

// WithSystemPrompt returns msgs led by a single system message holding prompt.
// System messages already in msgs are folded into it after prompt, so the result
// never carries more than one. An empty prompt returns msgs unchanged.
// The input slice is never modified.
func WithSystemPrompt(msgs []Message, prompt string) []Message {
	if prompt == "" {
		return msgs
	}
	parts := []string{prompt}
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	result := make([]Message, 0, len(rest)+1)
	result = append(result, Message{Role: RoleSystem, Content: strings.Join(parts, "\n\n")})
	result = append(result, rest...)
	return result
}

// WithoutSystem returns a copy of msgs with every system message removed.
func WithoutSystem(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// LastN returns the trailing n messages of msgs in their original order.
func LastN(msgs []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
