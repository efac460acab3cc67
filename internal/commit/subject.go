package commit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxSubjectLength applies when no maximum is configured.
	DefaultMaxSubjectLength = 100
	// MinSubjectLength is the shortest accepted subject.
	MinSubjectLength = 3
)

// Subject is the short imperative description on the header line.
type Subject struct {
	value string
}

// NewSubject trims value and checks, in order: emptiness, line breaks,
// minimum length, maxLen (DefaultMaxSubjectLength when maxLen <= 0),
// lowercase start and the absence of a trailing period. Lengths are counted
// in runes.
func NewSubject(value string, maxLen int) (Subject, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxSubjectLength
	}
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)

	switch {
	case n == 0:
		return Subject{}, invalid("subject", "", ErrEmptySubject, "")
	case strings.ContainsAny(v, "\r\n"):
		return Subject{}, invalid("subject", v, ErrSubjectMultiline, "")
	case n < MinSubjectLength:
		return Subject{}, invalid("subject", v, ErrSubjectTooShort, "min %d characters", MinSubjectLength)
	case n > maxLen:
		return Subject{}, invalid("subject", v, ErrSubjectTooLong, "%d characters, max %d", n, maxLen)
	}

	first, _ := utf8.DecodeRuneInString(v)
	if unicode.IsUpper(first) {
		return Subject{}, invalid("subject", v, ErrSubjectUppercaseStart, "")
	}
	if strings.HasSuffix(v, ".") {
		return Subject{}, invalid("subject", v, ErrSubjectTrailingPeriod, "")
	}
	return Subject{value: v}, nil
}

// String returns the subject text.
func (s Subject) String() string {
	return s.value
}

// Len returns the subject length in runes.
func (s Subject) Len() int {
	return utf8.RuneCountInString(s.value)
}
