// Package commit holds the conventional commit domain: the Type, Scope and
// Subject value objects, the immutable Message entity that formats them, the
// configured Rules used to build messages from primitive input, and a parser
// that turns a formatted message back into its parts.
package commit

import (
	"strings"
)

// DefaultTypes is the conventional commit vocabulary used when no types are configured.
var DefaultTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf",
	"test", "build", "ci", "chore", "revert",
}

// Type is a validated commit type token. The zero value is not valid; use NewType.
type Type struct {
	value string
}

// NewType validates value against the allowed set. An empty allowed set means
// DefaultTypes. Surrounding whitespace is ignored, case is not.
func NewType(value string, allowed []string) (Type, error) {
	if len(allowed) == 0 {
		allowed = DefaultTypes
	}
	v := strings.TrimSpace(value)
	for _, t := range allowed {
		if v == t {
			return Type{value: v}, nil
		}
	}
	return Type{}, invalid("type", value, ErrInvalidType, "allowed: %s", strings.Join(allowed, ", "))
}

// String returns the type token.
func (t Type) String() string {
	return t.value
}

// Equals reports whether both types hold the same token.
func (t Type) Equals(other Type) bool {
	return t.value == other.value
}

// TypeDescription returns a human-readable description for a conventional commit type.
// Returns an empty string for unknown types.
func TypeDescription(commitType string) string {
	descriptions := map[string]string{
		"feat":     "A new feature",
		"fix":      "A bug fix",
		"docs":     "Documentation only changes",
		"style":    "Changes that do not affect the meaning of the code",
		"refactor": "A code change that neither fixes a bug nor adds a feature",
		"perf":     "A code change that improves performance",
		"test":     "Adding missing tests or correcting existing tests",
		"build":    "Changes that affect the build system or external dependencies",
		"ci":       "Changes to CI configuration files and scripts",
		"chore":    "Other changes that don't modify src or test files",
		"revert":   "Reverts a previous commit",
	}
	return descriptions[commitType]
}
