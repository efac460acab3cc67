// Package config manages application configuration using viper.
// It supports configuration from YAML files (.convey.yaml), environment variables
// (CONVEY_ prefix), and command-line flags with sensible defaults. The merged
// result is an explicit *Config value that callers pass down; nothing here is a
// package-level global.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Provider names understood by the ai package.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// KnownProviders lists every provider name accepted in ai.provider and ai.fallback.
var KnownProviders = []string{ProviderOllama, ProviderOpenAI, ProviderClaude}

// ErrInvalidConfig is returned by Validate for any rejected setting.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration values.
// It is populated from config files, environment variables, and command-line flags.
type Config struct {
	Commit CommitConfig `mapstructure:"commit"` // Conventional commit rules
	AI     AIConfig     `mapstructure:"ai"`     // AI provider settings
}

// CommitConfig holds the conventional commit vocabulary and limits.
type CommitConfig struct {
	Types            []string `mapstructure:"types"`              // Allowed commit types, shown to the provider and enforced
	Scopes           []string `mapstructure:"scopes"`             // Suggested scopes; advisory only
	MaxSubjectLength int      `mapstructure:"max_subject_length"` // Maximum subject length in characters
	MaxBodyLength    int      `mapstructure:"max_body_length"`    // Maximum body length; 0 disables the check
}

// AIConfig holds provider selection and per-provider settings.
type AIConfig struct {
	Provider    string       `mapstructure:"provider"`      // Preferred provider
	Fallback    []string     `mapstructure:"fallback"`      // Providers tried, in order, when the preferred one is unavailable
	MaxDiffSize int          `mapstructure:"max_diff_size"` // Diff budget in characters before truncation
	Ollama      OllamaConfig `mapstructure:"ollama"`
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Claude      ClaudeConfig `mapstructure:"claude"`
}

// OllamaConfig configures the local model server.
type OllamaConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
}

// OpenAIConfig configures an OpenAI-compatible chat completions backend.
// Pointing Endpoint at https://openrouter.ai/api/v1 selects OpenRouter.
type OpenAIConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"` // Also read from OPENAI_API_KEY
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	Referer     string        `mapstructure:"referer"` // OpenRouter HTTP-Referer header
	Title       string        `mapstructure:"title"`   // OpenRouter X-Title header
}

// ClaudeConfig configures the Claude Code CLI backend. The CLI is located on
// PATH and handles authentication itself ('claude login').
type ClaudeConfig struct {
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Loader builds a Config from defaults, an optional config file, environment
// variables and bound flags. Create one per process with NewLoader.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader returns a Loader with defaults and environment overrides applied.
// Call Load to read a config file and Config to obtain the merged result.
func NewLoader() *Loader {
	l := &Loader{v: viper.New()}
	l.setDefaults()
	l.loadEnvVars()
	return l
}

func (l *Loader) setDefaults() {
	v := l.v

	// Commit defaults
	v.SetDefault("commit.types", []string{
		"feat", "fix", "docs", "style", "refactor", "perf",
		"test", "build", "ci", "chore", "revert",
	})
	v.SetDefault("commit.scopes", []string{})
	v.SetDefault("commit.max_subject_length", 100)
	v.SetDefault("commit.max_body_length", 0)

	// Provider selection
	v.SetDefault("ai.provider", ProviderOllama)
	v.SetDefault("ai.fallback", []string{ProviderOpenAI, ProviderClaude})
	v.SetDefault("ai.max_diff_size", 8000)

	// Local model server
	v.SetDefault("ai.ollama.endpoint", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "llama3.2")
	v.SetDefault("ai.ollama.timeout", 120*time.Second)
	v.SetDefault("ai.ollama.temperature", 0.2)

	// Hosted chat completions
	v.SetDefault("ai.openai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.api_key", "")
	v.SetDefault("ai.openai.timeout", 30*time.Second)
	v.SetDefault("ai.openai.temperature", 0.2)
	v.SetDefault("ai.openai.referer", "")
	v.SetDefault("ai.openai.title", "convey")

	// Claude Code CLI
	v.SetDefault("ai.claude.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.claude.timeout", 60*time.Second)
}

func (l *Loader) loadEnvVars() {
	l.v.SetEnvPrefix("CONVEY")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	// The conventional variable works too; CONVEY_AI_OPENAI_API_KEY wins when both are set.
	_ = l.v.BindEnv("ai.openai.api_key", "CONVEY_AI_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// Load reads .convey.yaml from the current directory, then the home
// directory. A missing file is not an error; a malformed one is.
func (l *Loader) Load() error {
	l.v.SetConfigName(".convey")
	l.v.SetConfigType("yaml")

	// Add config paths in priority order
	// 1. Current directory (project config)
	l.v.AddConfigPath(".")
	// 2. Home directory (global config)
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	l.configFile = l.v.ConfigFileUsed()
	return nil
}

// BindFlags binds cobra command-line flags to configuration keys.
// Only flags that exist on cmd are bound.
func (l *Loader) BindFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("provider"); f != nil {
		_ = l.v.BindPFlag("ai.provider", f)
	}
}

// Config unmarshals the merged settings and validates them.
func (l *Loader) Config() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFile returns the path of the loaded config file, or "" when none was found.
func (l *Loader) ConfigFile() string {
	return l.configFile
}

// AllSettings returns the merged settings as a nested map, for display.
func (l *Loader) AllSettings() map[string]any {
	return l.v.AllSettings()
}

// DefaultConfigPath returns the default global config file path (~/.convey.yaml).
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".convey.yaml")
}

func (c *Config) normalize() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	for i, name := range c.AI.Fallback {
		c.AI.Fallback[i] = strings.ToLower(strings.TrimSpace(name))
	}
	for i, t := range c.Commit.Types {
		c.Commit.Types[i] = strings.TrimSpace(t)
	}
}

var typeTokenPattern = regexp.MustCompile(`^[a-z]+$`)

// Validate rejects unknown provider names, malformed commit types and
// non-positive limits.
func (c *Config) Validate() error {
	if !IsKnownProvider(c.AI.Provider) {
		return fmt.Errorf("%w: unknown ai.provider %q (known: %s)", ErrInvalidConfig, c.AI.Provider, strings.Join(KnownProviders, ", "))
	}
	for _, name := range c.AI.Fallback {
		if !IsKnownProvider(name) {
			return fmt.Errorf("%w: unknown provider %q in ai.fallback", ErrInvalidConfig, name)
		}
	}
	if len(c.Commit.Types) == 0 {
		return fmt.Errorf("%w: commit.types must not be empty", ErrInvalidConfig)
	}
	for _, t := range c.Commit.Types {
		if !typeTokenPattern.MatchString(t) {
			return fmt.Errorf("%w: commit type %q must be lowercase letters only", ErrInvalidConfig, t)
		}
	}
	if c.Commit.MaxSubjectLength <= 0 {
		return fmt.Errorf("%w: commit.max_subject_length must be positive", ErrInvalidConfig)
	}
	if c.Commit.MaxBodyLength < 0 {
		return fmt.Errorf("%w: commit.max_body_length must not be negative", ErrInvalidConfig)
	}
	if c.AI.MaxDiffSize <= 0 {
		return fmt.Errorf("%w: ai.max_diff_size must be positive", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{
		"ai.ollama.timeout": c.AI.Ollama.Timeout,
		"ai.openai.timeout": c.AI.OpenAI.Timeout,
		"ai.claude.timeout": c.AI.Claude.Timeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ProviderOrder returns the preferred provider followed by the fallbacks,
// without duplicates.
func (a AIConfig) ProviderOrder() []string {
	seen := make(map[string]bool)
	var order []string
	for _, name := range append([]string{a.Provider}, a.Fallback...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	return order
}

// OverrideModel sets the model of the preferred provider, as the --model flag does.
func (a *AIConfig) OverrideModel(model string) {
	if model == "" {
		return
	}
	switch a.Provider {
	case ProviderOllama:
		a.Ollama.Model = model
	case ProviderOpenAI:
		a.OpenAI.Model = model
	case ProviderClaude:
		a.Claude.Model = model
	}
}

// IsKnownProvider reports whether name is a supported provider.
func IsKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}
