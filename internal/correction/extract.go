// Package correction mines corrections out of free-form analysis replies.
//
// The result is advisory only: the extractor runs an ordered list of text patterns
// over natural-language model output and can miss or misread corrections.
package correction

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// LooksCorrect is the explanation when the reply mentions no correction.
	LooksCorrect = "Your text looks correct. Well done!"
	// NotExtracted is the explanation when the reply mentions corrections that could not be parsed.
	NotExtracted = "Sorry, the analysis mentions corrections but they could not be extracted. Please read the full feedback."
	// Unavailable is the explanation when extraction failed unexpectedly.
	Unavailable = "Explanation unavailable."

	minErrorLength = 10
	maxErrorLength = 200
	maxErrors      = 3
)

// Result is the outcome of Extract.
type Result struct {
	HasErrors     bool     `json:"hasErrors"`
	CorrectedText string   `json:"correctedText"`
	Errors        []string `json:"errors"`
	Explanation   string   `json:"explanation"`
}

var markers = []string{"corrected", "error", "mistake", "should be", "change", "fix"}

// strategy is one extraction attempt; strategies run in order and the first match wins.
type strategy struct {
	name    string
	pattern *regexp.Regexp
}

var correctedTextStrategies = []strategy{
	{"labelled quote", regexp.MustCompile(`(?i)corrected(?:\s+(?:version|text|sentence))?\s*:\s*"([^"]+)"`)},
	{"should be", regexp.MustCompile(`(?i)should\s+be\s*:?\s*"([^"]+)"`)},
	{"correction label", regexp.MustCompile(`(?i)correction\s*:\s*"([^"]+)"`)},
	{"labelled line", regexp.MustCompile(`(?im)corrected(?:\s+(?:version|text|sentence))?\s*:\s*([^"\n]+)$`)},
}

var errorListStrategies = []strategy{
	{"bullets", regexp.MustCompile(`(?m)^\s*[-*•]\s+(.+)$`)},
	{"numbered", regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.+)$`)},
	{"labelled errors", regexp.MustCompile(`(?i)(?:error|mistake)\s*:\s*([^\n]+)`)},
}

// phraseFix is a fallback substitution for a frequent learner mistake.
type phraseFix struct {
	pattern     *regexp.Regexp
	replacement string
}

func fix(wrong, right string) phraseFix {
	return phraseFix{regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wrong) + `\b`), right}
}

var fallbackFixes = []phraseFix{
	fix("I are", "I am"),
	fix("you is", "you are"),
	fix("he have", "he has"),
	fix("she have", "she has"),
	fix("it have", "it has"),
	fix("they is", "they are"),
	fix("we is", "we are"),
	fix("he don't", "he doesn't"),
	fix("she don't", "she doesn't"),
}

// Extract inspects reply, an analysis of original, and reports what it could find.
// It never panics; unexpected failures yield a result with the Unavailable explanation.
func Extract(reply, original string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("correction extraction failed", "panic", r)
			result = Result{CorrectedText: original, Errors: []string{}, Explanation: Unavailable}
		}
	}()

	if !hasMarker(reply) {
		return Result{
			CorrectedText: original,
			Errors:        []string{},
			Explanation:   LooksCorrect,
		}
	}

	result = Result{
		HasErrors:     true,
		CorrectedText: correctedText(reply),
		Errors:        errorList(reply),
		Explanation:   strings.TrimSpace(reply),
	}

	if result.CorrectedText == "" {
		if fixed, changed := applyFallback(original); changed {
			result.CorrectedText = fixed
		}
	}

	if result.CorrectedText == "" && len(result.Errors) == 0 {
		result.CorrectedText = original
		result.Explanation = NotExtracted
	}
	if result.CorrectedText == "" {
		result.CorrectedText = original
	}
	return result
}

func hasMarker(reply string) bool {
	lower := strings.ToLower(reply)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func correctedText(reply string) string {
	for _, s := range correctedTextStrategies {
		if m := s.pattern.FindStringSubmatch(reply); m != nil {
			if text := strings.TrimSpace(m[1]); text != "" {
				slog.Debug("corrected text extracted", "strategy", s.name)
				return text
			}
		}
	}
	return ""
}

func errorList(reply string) []string {
	for _, s := range errorListStrategies {
		var found []string
		for _, m := range s.pattern.FindAllStringSubmatch(reply, -1) {
			line := strings.TrimSpace(m[1])
			if n := utf8.RuneCountInString(line); n < minErrorLength || n > maxErrorLength {
				continue
			}
			found = append(found, line)
			if len(found) == maxErrors {
				break
			}
		}
		if len(found) > 0 {
			slog.Debug("errors extracted", "strategy", s.name, "count", len(found))
			return found
		}
	}
	return []string{}
}

func applyFallback(original string) (string, bool) {
	fixed := original
	for _, f := range fallbackFixes {
		fixed = f.pattern.ReplaceAllString(fixed, f.replacement)
	}
	return fixed, fixed != original
}
