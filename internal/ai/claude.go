package ai

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	claudecode "github.com/rokrokss/claude-code-sdk-go"
	"github.com/rs/zerolog"

	"github.com/buker/convey/internal/config"
)

const (
	defaultClaudeTimeout = 60 * time.Second
	claudeCLIName        = "claude"
)

// errClaudeResult is returned when the CLI reports a failed query.
var errClaudeResult = errors.New("API error in result message")

// Claude generates commit messages through the Claude Code CLI using the
// claude-code-sdk-go client. Authentication is handled by the CLI: users must
// run 'claude login' first.
type Claude struct {
	model   string
	timeout time.Duration
	logger  zerolog.Logger

	lookPath   func(file string) (string, error)
	withClient func(ctx context.Context, fn func(client claudecode.Client) error) error
}

// NewClaude builds a Claude Code provider from its configuration.
func NewClaude(cfg config.ClaudeConfig, logger zerolog.Logger) *Claude {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClaudeTimeout
	}
	c := &Claude{
		model:    cfg.Model,
		timeout:  timeout,
		logger:   logger,
		lookPath: exec.LookPath,
	}
	c.withClient = c.runWithClient
	return c
}

// Name implements Provider.
func (c *Claude) Name() string { return config.ProviderClaude }

// IsAvailable implements Provider.
func (c *Claude) IsAvailable(ctx context.Context) bool {
	err := c.Check(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("claude CLI not found")
	}
	return err == nil
}

// Check reports whether the claude CLI is on PATH.
func (c *Claude) Check(ctx context.Context) error {
	path, err := c.lookPath(claudeCLIName)
	if err != nil {
		return &ProviderUnavailableError{Provider: c.Name(), Reason: errMsgCLINotFound, Err: err}
	}
	c.logger.Debug().Str("path", path).Msg("claude CLI found")
	return nil
}

// GenerateCommitMessage implements Provider.
func (c *Claude) GenerateCommitMessage(ctx context.Context, diff string, req Request) (*Result, error) {
	return generate(ctx, c.Name(), c, c.timeout, c.logger, diff, req)
}

// runWithClient executes fn with a connected Claude Code SDK client.
// The client is connected before fn runs and disconnected after.
func (c *Claude) runWithClient(ctx context.Context, fn func(client claudecode.Client) error) error {
	var opts []claudecode.Option
	if c.model != "" {
		opts = append(opts, claudecode.WithModel(c.model))
	}
	return claudecode.WithClient(ctx, fn, opts...)
}

// complete sends the system and user prompts as one query and collects the
// assistant text until the result message arrives.
func (c *Claude) complete(ctx context.Context, system, user string) (string, error) {
	query := system + "\n\n" + user

	var response string
	err := c.withClient(ctx, func(client claudecode.Client) error {
		var callErr error
		response, callErr = c.query(ctx, client, query)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return response, nil
}

func (c *Claude) query(ctx context.Context, client claudecode.Client, query string) (string, error) {
	if err := client.Query(ctx, query); err != nil {
		return "", fmt.Errorf("failed to send query: %w", err)
	}

	var content strings.Builder
	for msg := range client.ReceiveMessages(ctx) {
		switch m := msg.(type) {
		case *claudecode.AssistantMessage:
			for _, block := range m.Content {
				if textBlock, ok := block.(*claudecode.TextBlock); ok {
					content.WriteString(textBlock.Text)
				}
			}
		case *claudecode.ResultMessage:
			if m.IsError {
				return "", errClaudeResult
			}
			return content.String(), nil
		default:
			c.logger.Debug().Str("type", fmt.Sprintf("%T", msg)).Msg("ignoring claude message")
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return content.String(), nil
}
