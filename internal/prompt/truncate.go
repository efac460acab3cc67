// Package prompt turns a staged diff and its repository context into the
// system and user prompts sent to a provider. Everything here is pure string
// templating so prompt text stays in one place and can be tested without a
// network call.
package prompt

import (
	"fmt"
	"strings"
)

// DefaultMaxDiffChars bounds the diff sent to a provider when no limit is configured.
const DefaultMaxDiffChars = 8000

// Truncate bounds diff to maxChars runes. A diff that fits is returned
// unchanged. Otherwise the first and last maxChars/2 runes are kept and
// joined by a marker stating how many lines were elided. maxChars <= 0 means
// DefaultMaxDiffChars.
func Truncate(diff string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxDiffChars
	}
	runes := []rune(diff)
	if len(runes) <= maxChars {
		return diff
	}

	half := maxChars / 2
	head := string(runes[:half])
	tail := string(runes[len(runes)-half:])

	elided := countLines(diff) - countLines(head) - countLines(tail)
	if elided < 0 {
		elided = 0
	}

	return head + truncationMarker(elided) + tail
}

func truncationMarker(lines int) string {
	return fmt.Sprintf("\n\n... [%d lines truncated] ...\n\n", lines)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
