// Package generator orchestrates one commit-message generation attempt: it
// collects the repository context, selects the first available provider in
// preference order, asks it for a proposal and validates the result against
// the configured commit rules. Every failure is recoverable; callers are
// expected to fall back to manual entry.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/buker/convey/internal/ai"
	"github.com/buker/convey/internal/analysis"
	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/config"
	"github.com/buker/convey/internal/git"
	"github.com/buker/convey/internal/prompt"
)

// recentCommitCount is how many recent subjects are sent as style reference.
const recentCommitCount = 5

// detachedBranch is reported as the branch name when HEAD is detached.
const detachedBranch = "HEAD (detached)"

// ErrNoProviderAvailable is returned when no configured provider reports
// itself available.
var ErrNoProviderAvailable = errors.New("no AI provider available")

// Repository is the slice of the git collaborator the generator reads from.
type Repository interface {
	GetStagedDiff() (string, error)
	GetStagedFiles() ([]string, error)
	CurrentBranch() (string, error)
	RecentSubjects(n int) ([]string, error)
}

// Status is a step of a generation attempt, reported through a StatusCallback.
type Status string

const (
	StatusChecking    Status = "checking"
	StatusUnavailable Status = "unavailable"
	StatusGenerating  Status = "generating"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
)

// StatusCallback is invoked as a provider moves through an attempt. Used by
// the TUI to show which provider is being tried.
type StatusCallback func(provider string, status Status)

// Proposal is a validated commit message together with the raw provider
// result it came from.
type Proposal struct {
	Message         commit.Message
	Result          *ai.Result
	Provider        string
	AvailableTypes  []string
	AvailableScopes []string
}

// Service selects providers and turns their output into validated messages.
type Service struct {
	rules          commit.Rules
	maxDiffSize    int
	providers      []ai.Provider
	logger         zerolog.Logger
	statusCallback StatusCallback
}

// New builds a Service with one provider per name in cfg.AI.ProviderOrder.
// Unknown provider names are rejected here rather than at generation time.
func New(cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	var providers []ai.Provider
	for _, name := range cfg.AI.ProviderOrder() {
		p, err := ai.New(name, cfg.AI, logger)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return NewWithProviders(cfg, providers, logger), nil
}

// NewWithProviders builds a Service around an explicit provider list, tried
// in the given order.
func NewWithProviders(cfg *config.Config, providers []ai.Provider, logger zerolog.Logger) *Service {
	return &Service{
		rules:       RulesFromConfig(cfg.Commit),
		maxDiffSize: cfg.AI.MaxDiffSize,
		providers:   providers,
		logger:      logger,
	}
}

// RulesFromConfig converts the commit section of the configuration into
// validation rules.
func RulesFromConfig(c config.CommitConfig) commit.Rules {
	return commit.Rules{
		Types:            append([]string(nil), c.Types...),
		Scopes:           append([]string(nil), c.Scopes...),
		MaxSubjectLength: c.MaxSubjectLength,
		MaxBodyLength:    c.MaxBodyLength,
	}
}

// OnStatus registers a callback for attempt progress. Pass nil to remove it.
func (s *Service) OnStatus(cb StatusCallback) {
	s.statusCallback = cb
}

// Rules returns the commit rules every proposal is validated against.
func (s *Service) Rules() commit.Rules {
	return s.rules
}

// Providers returns the configured providers in preference order.
func (s *Service) Providers() []ai.Provider {
	return s.providers
}

func (s *Service) report(provider string, status Status) {
	if s.statusCallback != nil {
		s.statusCallback(provider, status)
	}
}

// SelectProvider checks providers one at a time, in preference order, and
// returns the first that is available. When none is, the error joins
// ErrNoProviderAvailable with each provider's *ai.ProviderUnavailableError.
func (s *Service) SelectProvider(ctx context.Context) (ai.Provider, error) {
	errs := []error{ErrNoProviderAvailable}
	for _, p := range s.providers {
		s.report(p.Name(), StatusChecking)
		err := ai.CheckAvailability(ctx, p)
		if err == nil {
			s.logger.Debug().Str("provider", p.Name()).Msg("provider available")
			return p, nil
		}
		s.logger.Debug().Str("provider", p.Name()).Err(err).Msg("provider unavailable")
		s.report(p.Name(), StatusUnavailable)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// CollectContext gathers everything sent to a provider: the staged diff
// truncated to the configured budget, the changed files, the branch, recent
// commit subjects and the allowed types and scopes. Scopes default to
// suggestions derived from the changed paths.
func (s *Service) CollectContext(repo Repository) (prompt.DiffContext, error) {
	diff, err := repo.GetStagedDiff()
	if err != nil {
		return prompt.DiffContext{}, err
	}
	files, err := repo.GetStagedFiles()
	if err != nil {
		return prompt.DiffContext{}, err
	}

	branch, err := repo.CurrentBranch()
	if errors.Is(err, git.ErrDetachedHead) {
		branch = detachedBranch
	} else if err != nil {
		return prompt.DiffContext{}, err
	}

	recent, err := repo.RecentSubjects(recentCommitCount)
	if err != nil {
		// History is style reference only
		s.logger.Debug().Err(err).Msg("could not read recent commits")
		recent = nil
	}

	truncated := prompt.Truncate(diff, s.maxDiffSize)
	if len(truncated) != len(diff) {
		s.logger.Debug().Int("diff_len", len(diff)).Int("max", s.maxDiffSize).Msg("diff truncated")
	}

	return prompt.DiffContext{
		Context: prompt.Context{
			Branch:          branch,
			Files:           files,
			AvailableTypes:  append([]string(nil), s.rules.AllowedTypes()...),
			AvailableScopes: analysis.SuggestScopes(files, s.rules.Scopes),
			RecentCommits:   recent,
		},
		Diff: truncated,
	}, nil
}

// Generate runs one attempt: select a provider, ask it for a message and
// build the result with the configured rules. A result that breaks the rules
// is reported as *ai.GenerationError so callers treat it like any other
// provider failure. No retries are made.
func (s *Service) Generate(ctx context.Context, dc prompt.DiffContext) (*Proposal, error) {
	attempt := uuid.NewString()
	logger := s.logger.With().Str("attempt", attempt).Logger()

	p, err := s.SelectProvider(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("no provider selected")
		return nil, err
	}
	name := p.Name()

	s.report(name, StatusGenerating)
	logger.Debug().Str("provider", name).Int("files", len(dc.Files)).Msg("generating commit message")

	result, err := p.GenerateCommitMessage(ctx, dc.Diff, ai.Request{
		Branch:           dc.Branch,
		Files:            dc.Files,
		AvailableTypes:   dc.AvailableTypes,
		AvailableScopes:  dc.AvailableScopes,
		RecentCommits:    dc.RecentCommits,
		MaxSubjectLength: s.rules.SubjectLimit(),
	})
	if err != nil {
		s.report(name, StatusFailed)
		logger.Debug().Str("provider", name).Err(err).Msg("generation failed")
		return nil, err
	}

	msg, err := s.rules.Build(result.Fields())
	if err != nil {
		s.report(name, StatusFailed)
		logger.Debug().Str("provider", name).Err(err).Msg("proposal rejected by commit rules")
		return nil, &ai.GenerationError{
			Provider: name,
			Reason:   fmt.Sprintf("proposal rejected: %v", err),
			Err:      err,
		}
	}

	s.report(name, StatusDone)
	logger.Debug().
		Str("provider", name).
		Int("confidence", result.Confidence).
		Str("header", msg.Header()).
		Msg("proposal ready")

	return &Proposal{
		Message:         msg,
		Result:          result,
		Provider:        name,
		AvailableTypes:  dc.AvailableTypes,
		AvailableScopes: dc.AvailableScopes,
	}, nil
}
