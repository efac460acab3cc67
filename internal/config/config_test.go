package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func resetForTest(t *testing.T) {
	t.Helper()
	// Prevent accidentally reading a real user config from HOME.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CONVEY_AI_OPENAI_API_KEY", "")
}

// chdirForTest switches to dir for the duration of the test.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Errorf("failed to restore directory: %v", err)
		}
	})
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".convey.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

func mustLoad(t *testing.T, l *Loader) *Config {
	t.Helper()
	if err := l.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	c, err := l.Config()
	if err != nil {
		t.Fatalf("Config() failed: %v", err)
	}
	return c
}

func TestLoader_SetsDefaults(t *testing.T) {
	resetForTest(t)
	chdirForTest(t, t.TempDir())

	l := NewLoader()
	c := mustLoad(t, l)

	if len(c.Commit.Types) != 11 {
		t.Fatalf("expected 11 default commit types, got %v", c.Commit.Types)
	}
	if len(c.Commit.Scopes) != 0 {
		t.Fatalf("expected no default scopes, got %v", c.Commit.Scopes)
	}
	if c.Commit.MaxSubjectLength != 100 {
		t.Fatalf("expected commit.max_subject_length default 100, got %d", c.Commit.MaxSubjectLength)
	}
	if c.AI.Provider != ProviderOllama {
		t.Fatalf("expected ai.provider default %q, got %q", ProviderOllama, c.AI.Provider)
	}
	if !reflect.DeepEqual(c.AI.Fallback, []string{ProviderOpenAI, ProviderClaude}) {
		t.Fatalf("unexpected ai.fallback default: %v", c.AI.Fallback)
	}
	if c.AI.MaxDiffSize != 8000 {
		t.Fatalf("expected ai.max_diff_size default 8000, got %d", c.AI.MaxDiffSize)
	}
	if c.AI.Ollama.Endpoint != "http://localhost:11434" || c.AI.Ollama.Timeout != 120*time.Second {
		t.Fatalf("unexpected ollama defaults: %+v", c.AI.Ollama)
	}
	if c.AI.OpenAI.Timeout != 30*time.Second || c.AI.OpenAI.Title != "convey" {
		t.Fatalf("unexpected openai defaults: %+v", c.AI.OpenAI)
	}
	if c.AI.Claude.Model != "claude-sonnet-4-20250514" || c.AI.Claude.Timeout != 60*time.Second {
		t.Fatalf("unexpected claude defaults: %+v", c.AI.Claude)
	}

	if l.ConfigFile() != "" {
		t.Fatalf("expected no config file to be loaded in tests, got %q", l.ConfigFile())
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	resetForTest(t)
	chdirForTest(t, t.TempDir())
	t.Setenv("CONVEY_AI_PROVIDER", "claude")
	t.Setenv("CONVEY_AI_CLAUDE_TIMEOUT", "90s")
	t.Setenv("CONVEY_COMMIT_MAX_SUBJECT_LENGTH", "72")

	c := mustLoad(t, NewLoader())

	if c.AI.Provider != ProviderClaude {
		t.Fatalf("expected ai.provider override %q, got %q", ProviderClaude, c.AI.Provider)
	}
	if c.AI.Claude.Timeout != 90*time.Second {
		t.Fatalf("expected ai.claude.timeout override 90s, got %v", c.AI.Claude.Timeout)
	}
	if c.Commit.MaxSubjectLength != 72 {
		t.Fatalf("expected commit.max_subject_length override 72, got %d", c.Commit.MaxSubjectLength)
	}
}

func TestLoader_OpenAIKeyFromConventionalEnv(t *testing.T) {
	resetForTest(t)
	chdirForTest(t, t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c := mustLoad(t, NewLoader())
	if c.AI.OpenAI.APIKey != "sk-test" {
		t.Fatalf("expected api key from OPENAI_API_KEY, got %q", c.AI.OpenAI.APIKey)
	}
}

func TestLoader_YAML(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()
	writeConfig(t, dir, `commit:
  types: [feat, fix, wip]
  scopes: [api, ui]
  max_subject_length: 72
ai:
  provider: openai
  fallback: [ollama]
  openai:
    endpoint: https://openrouter.ai/api/v1
    model: openai/gpt-4o-mini
`)
	chdirForTest(t, dir)

	l := NewLoader()
	c := mustLoad(t, l)

	if !reflect.DeepEqual(c.Commit.Types, []string{"feat", "fix", "wip"}) {
		t.Fatalf("unexpected commit.types: %v", c.Commit.Types)
	}
	if !reflect.DeepEqual(c.Commit.Scopes, []string{"api", "ui"}) {
		t.Fatalf("unexpected commit.scopes: %v", c.Commit.Scopes)
	}
	if c.AI.Provider != ProviderOpenAI || c.AI.OpenAI.Endpoint != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected ai settings: %+v", c.AI)
	}
	// unset keys keep their defaults
	if c.AI.OpenAI.Timeout != 30*time.Second {
		t.Fatalf("expected default openai timeout, got %v", c.AI.OpenAI.Timeout)
	}
	if l.ConfigFile() == "" {
		t.Fatal("expected config file path to be recorded")
	}
}

func TestLoader_MalformedYAML(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()
	writeConfig(t, dir, "commit: [unclosed\n")
	chdirForTest(t, dir)

	if err := NewLoader().Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestLoader_FlagOverridesEnv(t *testing.T) {
	resetForTest(t)
	chdirForTest(t, t.TempDir())
	t.Setenv("CONVEY_AI_PROVIDER", "claude")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("provider", "p", "", "AI provider")
	_ = cmd.Flags().Set("provider", "openai")

	l := NewLoader()
	l.BindFlags(cmd)
	c := mustLoad(t, l)

	if c.AI.Provider != ProviderOpenAI {
		t.Fatalf("expected flag to override env, got %q", c.AI.Provider)
	}
}

func TestLoader_UnsetFlagKeepsConfig(t *testing.T) {
	resetForTest(t)
	chdirForTest(t, t.TempDir())
	t.Setenv("CONVEY_AI_PROVIDER", "claude")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("provider", "p", "", "AI provider")

	l := NewLoader()
	l.BindFlags(cmd)
	c := mustLoad(t, l)

	if c.AI.Provider != ProviderClaude {
		t.Fatalf("expected env value when flag unset, got %q", c.AI.Provider)
	}
}

func TestDefaultConfigPath_UsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := DefaultConfigPath()
	if p != filepath.Join(home, ".convey.yaml") {
		t.Fatalf("expected %q, got %q", filepath.Join(home, ".convey.yaml"), p)
	}
}
