package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var excessiveNewlines = regexp.MustCompile(`\n{4,}`)

// Precompiled word-boundary matchers for the blocked terms.
var inappropriatePatterns = func() []*regexp.Regexp {
	words := []string{
		"fuck", "shit", "damn", "bitch", "ass", "dick", "cock",
		"porn", "sex", "nude", "xxx",
	}
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, word := range words {
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\b`, word)))
	}
	return patterns
}()

// SanitizeInput trims, caps the length, and collapses runs of blank lines.
func SanitizeInput(text string) string {
	sanitized := capMessageLength(strings.TrimSpace(text))
	return excessiveNewlines.ReplaceAllString(sanitized, "\n\n\n")
}

// capMessageLength truncates to MaxMessageLength bytes, backing up to a rune
// boundary so the cut never produces invalid UTF-8.
func capMessageLength(s string) string {
	if len(s) <= MaxMessageLength {
		return s
	}
	n := MaxMessageLength
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ContainsInappropriateContent reports whether the text matches the blocked
// term list on word boundaries, so "assist" and "sussex" pass.
func ContainsInappropriateContent(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range inappropriatePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
