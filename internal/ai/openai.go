package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buker/convey/internal/config"
)

const defaultOpenAITimeout = 30 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Text    string      `json:"text"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// OpenAI talks to an OpenAI-compatible chat completions API. OpenRouter works
// by pointing the endpoint at it. Zero value is not valid; use NewOpenAI.
type OpenAI struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	referer     string
	title       string
	timeout     time.Duration
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewOpenAI builds an OpenAI-compatible provider from its configuration.
func NewOpenAI(cfg config.OpenAIConfig, logger zerolog.Logger) *OpenAI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	return &OpenAI{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		model:       cfg.Model,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		temperature: cfg.Temperature,
		referer:     cfg.Referer,
		title:       cfg.Title,
		timeout:     timeout,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string { return config.ProviderOpenAI }

// IsAvailable implements Provider.
func (o *OpenAI) IsAvailable(ctx context.Context) bool {
	err := o.Check(ctx)
	if err != nil {
		o.logger.Debug().Err(err).Str("endpoint", o.endpoint).Msg("openai probe failed")
	}
	return err == nil
}

// Check requires an API key and a 200 from GET /models.
func (o *OpenAI) Check(ctx context.Context) error {
	if o.apiKey == "" {
		return &ProviderUnavailableError{
			Provider: o.Name(),
			Reason:   "no API key (set OPENAI_API_KEY or ai.openai.api_key)",
		}
	}
	if err := o.probe(ctx); err != nil {
		return newUnavailableError(o.Name(), err)
	}
	return nil
}

func (o *OpenAI) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"/models", nil)
	if err != nil {
		return fmt.Errorf("openai models request: %w", err)
	}
	o.setHeaders(req)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai models: %w", errors.Join(ErrUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai models: %w", readStatusError(resp))
	}
	return nil
}

func (o *OpenAI) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.referer != "" {
		req.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		req.Header.Set("X-Title", o.title)
	}
}

// GenerateCommitMessage implements Provider.
func (o *OpenAI) GenerateCommitMessage(ctx context.Context, diff string, req Request) (*Result, error) {
	return generate(ctx, o.Name(), o, o.timeout, o.logger, diff, req)
}

func (o *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	temp := o.temperature
	payload := chatRequest{
		Model:          o.model,
		Messages:       []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature:    &temp,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai chat: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	o.setHeaders(req)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai chat: %w", readStatusError(resp))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai chat: parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai chat: response has no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		content = strings.TrimSpace(out.Choices[0].Text)
	}
	if content == "" {
		return "", errors.New("openai chat: response content is empty")
	}
	return content, nil
}
