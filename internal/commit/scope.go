package commit

import (
	"regexp"
	"strings"
)

var scopePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Scope names the module or area a commit touches. The zero value is the
// empty scope and is valid.
type Scope struct {
	value string
}

// EmptyScope is the canonical "no scope" value.
var EmptyScope = Scope{}

// NewScope trims value and validates it. Blank input yields EmptyScope rather
// than an error; anything other than lowercase letters, digits and hyphens is
// rejected.
func NewScope(value string) (Scope, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return EmptyScope, nil
	}
	if !scopePattern.MatchString(v) {
		return Scope{}, invalid("scope", v, ErrInvalidScope, "use lowercase letters, digits and hyphens")
	}
	return Scope{value: v}, nil
}

// IsEmpty reports whether this is the empty scope.
func (s Scope) IsEmpty() bool {
	return s.value == ""
}

// String returns the scope identifier, or "" for the empty scope.
func (s Scope) String() string {
	return s.value
}

// Equals reports whether both scopes hold the same identifier.
func (s Scope) Equals(other Scope) bool {
	return s.value == other.value
}
