package commit

import (
	"strings"
	"unicode/utf8"
)

// Fields is the primitive, unvalidated form of a commit message, as produced
// by an LLM response, a parsed commit or a manual entry form.
type Fields struct {
	Type                string
	Scope               string
	Subject             string
	Body                string
	Breaking            bool
	BreakingDescription string
}

// Rules is the configured conventional commit vocabulary. The same Rules
// instance drives both the prompt shown to a provider and the validation of
// what comes back, so the two can never disagree on the allowed types.
type Rules struct {
	Types            []string // allowed commit types; empty means DefaultTypes
	Scopes           []string // suggested scopes; advisory only
	MaxSubjectLength int      // <= 0 means DefaultMaxSubjectLength
	MaxBodyLength    int      // <= 0 means unlimited
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		Types:            append([]string(nil), DefaultTypes...),
		MaxSubjectLength: DefaultMaxSubjectLength,
	}
}

// AllowedTypes returns the effective type set.
func (r Rules) AllowedTypes() []string {
	if len(r.Types) == 0 {
		return DefaultTypes
	}
	return r.Types
}

// SubjectLimit returns the effective maximum subject length.
func (r Rules) SubjectLimit() int {
	if r.MaxSubjectLength <= 0 {
		return DefaultMaxSubjectLength
	}
	return r.MaxSubjectLength
}

// Build validates every field and assembles a Message. The first violated
// invariant is returned as a *ValidationError.
func (r Rules) Build(f Fields) (Message, error) {
	typ, err := NewType(f.Type, r.AllowedTypes())
	if err != nil {
		return Message{}, err
	}
	scope, err := NewScope(f.Scope)
	if err != nil {
		return Message{}, err
	}
	subject, err := NewSubject(f.Subject, r.SubjectLimit())
	if err != nil {
		return Message{}, err
	}
	body := strings.TrimSpace(f.Body)
	if r.MaxBodyLength > 0 {
		if n := utf8.RuneCountInString(body); n > r.MaxBodyLength {
			return Message{}, invalid("body", "", ErrBodyTooLong, "%d characters, max %d", n, r.MaxBodyLength)
		}
	}
	return NewMessage(MessageProps{
		Type:                typ,
		Scope:               scope,
		Subject:             subject,
		Body:                body,
		Breaking:            f.Breaking,
		BreakingDescription: f.BreakingDescription,
	})
}
