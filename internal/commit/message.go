package commit

import (
	"strings"
	"unicode/utf8"
)

// MinBodyLength is the shortest accepted non-empty body, after trimming.
const MinBodyLength = 10

// BreakingChangeFooter prefixes the breaking change description.
const BreakingChangeFooter = "BREAKING CHANGE: "

// MessageProps carries the parts of a Message. Scope defaults to EmptyScope
// and Breaking to false through their zero values.
type MessageProps struct {
	Type                Type
	Subject             Subject
	Scope               Scope
	Body                string
	Breaking            bool
	BreakingDescription string
}

// Message is an immutable conventional commit message. Build one with
// NewMessage or Rules.Build; there are no mutators.
type Message struct {
	typ                 Type
	scope               Scope
	subject             Subject
	body                string
	breaking            bool
	breakingDescription string
}

// NewMessage assembles a Message from validated value objects. Body and
// breaking description are trimmed; a non-empty body shorter than
// MinBodyLength is rejected, as is a body carrying its own breaking change
// footer paragraph.
func NewMessage(p MessageProps) (Message, error) {
	body := strings.TrimSpace(p.Body)
	if body != "" && utf8.RuneCountInString(body) < MinBodyLength {
		return Message{}, invalid("body", body, ErrBodyTooShort, "min %d characters", MinBodyLength)
	}
	if hasBreakingFooter(body) {
		return Message{}, invalid("body", "", ErrBodyBreakingFooter, "mark the commit as breaking and describe it there")
	}
	return Message{
		typ:                 p.Type,
		scope:               p.Scope,
		subject:             p.Subject,
		body:                body,
		breaking:            p.Breaking,
		breakingDescription: strings.TrimSpace(p.BreakingDescription),
	}, nil
}

// Type returns the commit type.
func (m Message) Type() Type { return m.typ }

// Scope returns the scope, which may be empty.
func (m Message) Scope() Scope { return m.scope }

// Subject returns the subject.
func (m Message) Subject() Subject { return m.subject }

// Body returns the trimmed body, or "".
func (m Message) Body() string { return m.body }

// IsBreaking reports whether the commit is marked as a breaking change.
func (m Message) IsBreaking() bool { return m.breaking }

// BreakingDescription returns the BREAKING CHANGE footer text, or "".
func (m Message) BreakingDescription() string { return m.breakingDescription }

// Header returns the first line: type, optional (scope), optional !, colon and subject.
func (m Message) Header() string {
	var b strings.Builder
	b.WriteString(m.typ.String())
	if !m.scope.IsEmpty() {
		b.WriteString("(")
		b.WriteString(m.scope.String())
		b.WriteString(")")
	}
	if m.breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(m.subject.String())
	return b.String()
}

// Format renders the exact text written as the git commit message.
// Sections are separated by a blank line; the breaking change footer is only
// emitted when the message is breaking and carries a description.
func (m Message) Format() string {
	var b strings.Builder
	b.WriteString(m.Header())
	if m.body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.body)
	}
	if m.breaking && m.breakingDescription != "" {
		b.WriteString("\n\n")
		b.WriteString(BreakingChangeFooter)
		b.WriteString(m.breakingDescription)
	}
	return b.String()
}

// String implements fmt.Stringer using Format.
func (m Message) String() string {
	return m.Format()
}

// Equals reports value equality based on the formatted text.
func (m Message) Equals(other Message) bool {
	return m.Format() == other.Format()
}

// Fields returns the message as primitive fields.
func (m Message) Fields() Fields {
	return Fields{
		Type:                m.typ.String(),
		Scope:               m.scope.String(),
		Subject:             m.subject.String(),
		Body:                m.body,
		Breaking:            m.breaking,
		BreakingDescription: m.breakingDescription,
	}
}

func hasBreakingFooter(body string) bool {
	for _, marker := range breakingFooters {
		if strings.HasPrefix(body, marker) || strings.Contains(body, "\n\n"+marker) {
			return true
		}
	}
	return false
}
