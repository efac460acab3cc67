package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buker/convey/internal/config"
)

const defaultOllamaTimeout = 120 * time.Second

// ErrUnreachable indicates a server could not be reached (connection refused, timeout, or non-2xx).
var ErrUnreachable = errors.New("server unreachable")

// Ollama talks to a local Ollama server. Zero value is not valid; use NewOllama.
type Ollama struct {
	endpoint    string
	model       string
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewOllama builds an Ollama provider from its configuration.
func NewOllama(cfg config.OllamaConfig, logger zerolog.Logger) *Ollama {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}
	return &Ollama{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// Name implements Provider.
func (o *Ollama) Name() string { return config.ProviderOllama }

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// IsAvailable implements Provider.
func (o *Ollama) IsAvailable(ctx context.Context) bool {
	err := o.Check(ctx)
	if err != nil {
		o.logger.Debug().Err(err).Str("endpoint", o.endpoint).Msg("ollama probe failed")
	}
	return err == nil
}

// Check GETs /api/tags and requires the configured model to be installed.
func (o *Ollama) Check(ctx context.Context) error {
	names, err := o.listModels(ctx)
	if err != nil {
		return newUnavailableError(o.Name(), err)
	}
	if o.model == "" {
		return nil
	}
	for _, n := range names {
		if n == o.model || strings.TrimSuffix(n, ":latest") == o.model {
			return nil
		}
	}
	return &ProviderUnavailableError{
		Provider: o.Name(),
		Reason:   fmt.Sprintf("model %q is not installed (run 'ollama pull %s')", o.model, o.model),
	}
}

func (o *Ollama) listModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama tags request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", errors.Join(ErrUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: %w: HTTP %d", ErrUnreachable, resp.StatusCode)
	}
	var body ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("ollama tags: parse response: %w", err)
	}
	names := make([]string, 0, len(body.Models))
	for _, m := range body.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// GenerateCommitMessage implements Provider.
func (o *Ollama) GenerateCommitMessage(ctx context.Context, diff string, req Request) (*Result, error) {
	return generate(ctx, o.Name(), o, o.timeout, o.logger, diff, req)
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

func (o *Ollama) complete(ctx context.Context, system, user string) (string, error) {
	payload := ollamaChatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Stream:   false,
		Format:   "json",
		Options:  ollamaOptions{Temperature: o.temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama chat: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama chat: %w", readStatusError(resp))
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama chat: parse response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", out.Error)
	}
	return out.Message.Content, nil
}

// readStatusError builds an httpStatusError from a non-2xx response,
// keeping at most 4KiB of the body for the message.
func readStatusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &httpStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
}
