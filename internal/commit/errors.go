package commit

import (
	"errors"
	"fmt"
)

// Sentinel errors for conventional commit validation.
// Every constructor in this package returns them wrapped in a *ValidationError.
var (
	ErrInvalidType           = errors.New("invalid commit type")
	ErrInvalidScope          = errors.New("invalid scope format")
	ErrEmptySubject          = errors.New("subject cannot be empty")
	ErrSubjectTooShort       = errors.New("subject too short")
	ErrSubjectTooLong        = errors.New("subject too long")
	ErrSubjectUppercaseStart = errors.New("subject must start with a lowercase letter")
	ErrSubjectTrailingPeriod = errors.New("subject must not end with a period")
	ErrSubjectMultiline      = errors.New("subject must be a single line")
	ErrBodyTooShort          = errors.New("body too short")
	ErrBodyTooLong           = errors.New("body too long")
	ErrBodyBreakingFooter    = errors.New("body must not contain a BREAKING CHANGE footer")
	ErrInvalidFormat         = errors.New("not a conventional commit")
)

// ValidationError reports a violated invariant on one field of a commit message.
// It is always recoverable: callers re-prompt instead of aborting.
type ValidationError struct {
	Field  string // type, scope, subject, body or header
	Value  string // offending input, possibly truncated for display
	Detail string // optional extra context (allowed values, limits)
	Err    error  // one of the sentinel errors above
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Value)
	}
	return msg
}

// Unwrap returns the sentinel so errors.Is works against it.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, value string, err error, detailFormat string, args ...any) *ValidationError {
	detail := ""
	if detailFormat != "" {
		detail = fmt.Sprintf(detailFormat, args...)
	}
	if r := []rune(value); len(r) > 60 {
		value = string(r[:57]) + "..."
	}
	return &ValidationError{Field: field, Value: value, Detail: detail, Err: err}
}

// IsValidation reports whether err is (or wraps) a commit validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
