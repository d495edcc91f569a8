package moderation

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of classifying a piece of submitted text.
type Result struct {
	Flagged bool
	Reasons []string
}

// Classifier decides whether submitted text must be held for admin review.
// Implementations are pure from the caller's perspective.
type Classifier interface {
	Classify(text string) Result
}

type patternRule struct {
	re     *regexp.Regexp
	reason string
}

// Structural checks for markup/script injection attempts.
var flaggedPatterns = []patternRule{
	{regexp.MustCompile(`(?i)<script\b`), "contains script tag markup"},
	{regexp.MustCompile(`(?i)on\w+\s*=\s*("|')[^"']*("|')`), "contains inline event handler attributes"},
	{regexp.MustCompile(`(?i)href\s*=\s*("|')javascript:`), "contains javascript URL scheme"},
}

// TermClassifier flags text containing a known unsafe term or an injection
// pattern. It is the built-in stand-in for an external classification
// service and shares its contract.
type TermClassifier struct {
	terms    []string
	patterns []patternRule
}

func NewTermClassifier() *TermClassifier {
	return &TermClassifier{
		terms:    flaggedTerms,
		patterns: flaggedPatterns,
	}
}

// Classify scans text for flagged terms (case-insensitive substring match)
// and injection patterns. Reason order is deterministic: terms in list
// order, then patterns.
func (c *TermClassifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	var reasons []string
	for _, term := range c.terms {
		if strings.Contains(lower, term) {
			reasons = append(reasons, fmt.Sprintf("contains flagged term %q", term))
		}
	}
	for _, rule := range c.patterns {
		if rule.re.MatchString(text) {
			reasons = append(reasons, rule.reason)
		}
	}

	return Result{
		Flagged: len(reasons) > 0,
		Reasons: reasons,
	}
}
