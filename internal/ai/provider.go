package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/config"
	"github.com/buker/convey/internal/prompt"
)

// probeTimeout bounds every availability check.
const probeTimeout = 5 * time.Second

// Provider generates commit messages with one LLM backend. The set of
// implementations is closed: see New.
type Provider interface {
	// Name returns the configuration name of the provider.
	Name() string
	// IsAvailable reports whether the provider can be used right now.
	// Adapters that can say why not also implement Checker.
	IsAvailable(ctx context.Context) bool
	// GenerateCommitMessage asks the provider for a commit message describing
	// diff. Failures are returned as *GenerationError.
	GenerateCommitMessage(ctx context.Context, diff string, req Request) (*Result, error)
}

// Checker is implemented by providers that can explain why they are not
// available. Check returns nil or a *ProviderUnavailableError.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckAvailability returns nil when p can be used and a
// *ProviderUnavailableError otherwise.
func CheckAvailability(ctx context.Context, p Provider) error {
	if c, ok := p.(Checker); ok {
		return c.Check(ctx)
	}
	if p.IsAvailable(ctx) {
		return nil
	}
	return &ProviderUnavailableError{Provider: p.Name(), Reason: "not available"}
}

// completer sends one system+user prompt pair and returns the raw reply.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// New builds the provider registered under name.
func New(name string, cfg config.AIConfig, logger zerolog.Logger) (Provider, error) {
	switch name {
	case config.ProviderOllama:
		return NewOllama(cfg.Ollama, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI, logger), nil
	case config.ProviderClaude:
		return NewClaude(cfg.Claude, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// generate is the flow shared by every adapter: build the prompts, make a
// single call bounded by timeout, then parse and validate the reply.
func generate(ctx context.Context, name string, c completer, timeout time.Duration, logger zerolog.Logger, diff string, req Request) (*Result, error) {
	system := prompt.BuildSystemPrompt(req.AvailableTypes, req.MaxSubjectLength)
	user := prompt.BuildUserPrompt(diff, prompt.Context{
		Branch:          req.Branch,
		Files:           req.Files,
		AvailableTypes:  req.AvailableTypes,
		AvailableScopes: req.AvailableScopes,
		RecentCommits:   req.RecentCommits,
	})

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debug().
		Str("provider", name).
		Int("system_len", len(system)).
		Int("user_len", len(user)).
		Dur("timeout", timeout).
		Msg("sending generation request")

	start := time.Now()
	raw, err := c.complete(ctx, system, user)
	if err != nil {
		logger.Debug().Str("provider", name).Err(err).Msg("generation request failed")
		return nil, newGenerationError(name, err)
	}
	logger.Debug().
		Str("provider", name).
		Dur("elapsed", time.Since(start)).
		Int("response_len", len(raw)).
		Msg("received provider reply")

	maxSubject := req.MaxSubjectLength
	if maxSubject <= 0 {
		maxSubject = commit.DefaultMaxSubjectLength
	}
	result, err := ParseResponse(raw, maxSubject)
	if err != nil {
		logger.Debug().Str("provider", name).Str("response", raw).Err(err).Msg("unusable provider reply")
		return nil, &GenerationError{Provider: name, Err: err}
	}
	return result, nil
}
