package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buker/convey/internal/config"
)

const validReply = `{"type":"feat","scope":"auth","subject":"add login endpoint","body":"Adds POST /login with session cookies.","breaking":false,"confidence":88,"reasoning":"new endpoint"}`

func testRequest() Request {
	return Request{
		Branch:           "main",
		Files:            []string{"auth/login.go"},
		AvailableTypes:   []string{"feat", "fix"},
		MaxSubjectLength: 100,
	}
}

func newTestOllama(url string) *Ollama {
	return NewOllama(config.OllamaConfig{
		Endpoint:    url,
		Model:       "llama3.2",
		Timeout:     5 * time.Second,
		Temperature: 0.2,
	}, zerolog.Nop())
}

func TestOllama_IsAvailable_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer srv.Close()

	assert.True(t, newTestOllama(srv.URL).IsAvailable(context.Background()))
}

func TestOllama_Check_ModelNotInstalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
	}))
	defer srv.Close()

	o := newTestOllama(srv.URL)
	assert.False(t, o.IsAvailable(context.Background()))

	err := o.Check(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	var ue *ProviderUnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "ollama", ue.Provider)
	assert.Contains(t, ue.Reason, `model "llama3.2" is not installed`)
}

func TestOllama_IsAvailable_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.False(t, newTestOllama(srv.URL).IsAvailable(context.Background()))
}

func TestOllama_IsAvailable_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	o := newTestOllama(url)
	assert.False(t, o.IsAvailable(context.Background()))

	_, err := o.listModels(context.Background())
	require.True(t, errors.Is(err, ErrUnreachable), "want ErrUnreachable, got %v", err)

	err = o.Check(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestOllama_GenerateCommitMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.InDelta(t, 0.2, req.Options.Temperature, 1e-9)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Contains(t, req.Messages[0].Content, "feat, fix")
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Contains(t, req.Messages[1].Content, "+func Login()")
		}

		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: chatMessage{Role: "assistant", Content: validReply}})
	}))
	defer srv.Close()

	res, err := newTestOllama(srv.URL).GenerateCommitMessage(context.Background(), "+func Login()", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "feat", res.Type)
	assert.Equal(t, "auth", res.Scope)
	assert.Equal(t, "add login endpoint", res.Subject)
	assert.Equal(t, 88, res.Confidence)
}

func TestOllama_GenerateCommitMessage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"llama3.2\" not found"}`))
	}))
	defer srv.Close()

	_, err := newTestOllama(srv.URL).GenerateCommitMessage(context.Background(), "+x", testRequest())
	require.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "ollama", genErr.Provider)
	assert.Contains(t, genErr.Error(), "HTTP 404")
}

func TestOllama_GenerateCommitMessage_Refusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: chatMessage{Role: "assistant", Content: "Sorry, I cannot help."}})
	}))
	defer srv.Close()

	_, err := newTestOllama(srv.URL).GenerateCommitMessage(context.Background(), "+x", testRequest())
	require.ErrorIs(t, err, ErrGenerationFailed)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestOllama_GenerateCommitMessage_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	o := newTestOllama(srv.URL)
	o.timeout = 50 * time.Millisecond

	_, err := o.GenerateCommitMessage(context.Background(), "+x", testRequest())
	require.ErrorIs(t, err, ErrGenerationFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), errMsgTimeout)
}
