package prompts

import (
	"fmt"
	"regexp"
	"slices"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Validate reports problems with t as human-readable messages.
// An empty result means the template is well formed. Register and Render never call it.
func Validate(t PromptTemplate) []string {
	var problems []string

	if t.ID == "" {
		problems = append(problems, "template id is required")
	}
	if t.Name == "" {
		problems = append(problems, "template name is required")
	}
	if t.Template == "" {
		problems = append(problems, "template body is required")
	}
	if t.Variables == nil {
		problems = append(problems, "template variables must be a list")
	}

	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Template, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if !slices.Contains(t.Variables, name) {
			problems = append(problems, fmt.Sprintf("variable %q is used in the template but not declared", name))
		}
	}

	return problems
}
