package prompts

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a template catalog.
//
//	templates:
//	  - id: greeting
//	    name: Greeting
//	    category: conversation
//	    variables: [language]
//	    template: "Say hello in {{language}}."
type catalogFile struct {
	Templates []PromptTemplate `yaml:"templates"`
}

// LoadFile registers every template found in the YAML catalog at path.
// Entries with the id of an existing template replace it. Unlike Register, every entry is
// validated first and nothing is registered if any entry is invalid.
func LoadFile(s *Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read template catalog: %w", err)
	}
	return Load(s, data)
}

// Load is LoadFile for an in-memory catalog.
func Load(s *Store, data []byte) (int, error) {
	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, fmt.Errorf("parse template catalog: %w", err)
	}

	var errs []error
	for i, t := range catalog.Templates {
		if t.Category != "" && !t.Category.Valid() {
			errs = append(errs, fmt.Errorf("template #%d (%s): unknown category %q", i, t.ID, t.Category))
		}
		if problems := Validate(t); len(problems) > 0 {
			errs = append(errs, fmt.Errorf("template #%d (%s): %s", i, t.ID, strings.Join(problems, "; ")))
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}

	for _, t := range catalog.Templates {
		if t.Category == "" {
			t.Category = CategorySystem
		}
		s.Register(t)
	}

	slog.Info("template catalog loaded", "count", len(catalog.Templates))
	return len(catalog.Templates), nil
}
