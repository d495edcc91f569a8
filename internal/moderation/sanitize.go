package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxQuestionLength    = 500
	maxAliasLength       = 50
	maxSessionNameLength = 60
)

// MaxQuestionLength is the post-sanitization question text limit, counted
// in characters, not bytes.
const MaxQuestionLength = maxQuestionLength

var (
	crlfRE      = regexp.MustCompile(`\r\n?`)
	runsRE      = regexp.MustCompile(`\s{3,}`)
	anglesRE    = regexp.MustCompile(`[<>]`)
	nameStripRE = regexp.MustCompile("[<>\r\n]")
)

// SanitizeQuestion normalizes submitted question text: strips NUL bytes,
// normalizes line endings, trims, and collapses runs of 3+ whitespace
// characters to exactly two spaces. Returns "" for input that is empty
// after normalization.
func SanitizeQuestion(raw string) string {
	normalized := strings.ReplaceAll(raw, "\x00", "")
	normalized = crlfRE.ReplaceAllString(normalized, "\n")
	trimmed := strings.TrimSpace(normalized)
	if trimmed == "" {
		return ""
	}
	return runsRE.ReplaceAllString(trimmed, "  ")
}

// SanitizeAlias strips angle brackets, trims, and caps an author alias.
func SanitizeAlias(raw string) string {
	alias := anglesRE.ReplaceAllString(raw, "")
	alias = strings.TrimSpace(alias)
	return truncateRunes(alias, maxAliasLength)
}

// SanitizeSessionName strips angle brackets and bare CR/LF, trims, and caps
// a proposed session name. An empty result means the caller should fall
// back to a generated name.
func SanitizeSessionName(raw string) string {
	name := strings.TrimSpace(raw)
	name = nameStripRE.ReplaceAllString(name, "")
	name = truncateRunes(name, maxSessionNameLength)
	return strings.TrimSpace(name)
}

// truncateRunes caps s at n characters, never splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
