package ai

import (
	"errors"
	"fmt"
)

// Provider error kinds. Both are recoverable: the caller falls back to
// another provider or to manual entry.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrUnknownProvider     = errors.New("unknown provider")
)

// ProviderUnavailableError reports that a provider could not be used at all:
// not running, not installed, or missing credentials.
type ProviderUnavailableError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, ErrProviderUnavailable)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ProviderUnavailableError) Unwrap() error { return e.Err }

// Is matches ErrProviderUnavailable.
func (e *ProviderUnavailableError) Is(target error) bool { return target == ErrProviderUnavailable }

// GenerationError reports that a reachable provider failed to produce a
// usable commit message: transport failure, timeout, HTTP error, unparseable
// reply or a reply that breaks the commit rules.
type GenerationError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, ErrGenerationFailed)
	switch {
	case e.Reason != "":
		msg += ": " + e.Reason
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func newUnavailableError(provider string, err error) *ProviderUnavailableError {
	reason := classifyError(err)
	if reason == "" {
		reason = err.Error()
	}
	return &ProviderUnavailableError{Provider: provider, Reason: reason, Err: err}
}

func newGenerationError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Reason: classifyError(err), Err: err}
}
