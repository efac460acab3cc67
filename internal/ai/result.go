// Package ai generates commit messages with an LLM provider. It defines the
// Provider contract, the provider error kinds, the three-step parsing of a
// provider's free-text reply, and one adapter per supported backend: a local
// Ollama server, an OpenAI-compatible chat completions API and the Claude Code
// CLI.
package ai

import (
	"github.com/buker/convey/internal/commit"
)

// Result is a provider's structured proposal for a commit message. It is not
// yet validated against the commit rules; use Fields with commit.Rules.Build.
type Result struct {
	Type                string `json:"type"`
	Scope               string `json:"scope"`
	Subject             string `json:"subject"`
	Body                string `json:"body"`
	Breaking            bool   `json:"breaking"`
	BreakingDescription string `json:"breakingDescription"`
	Confidence          int    `json:"confidence"` // 0..100
	Reasoning           string `json:"reasoning"`
}

// Fields converts the result into primitive commit fields.
func (r *Result) Fields() commit.Fields {
	return commit.Fields{
		Type:                r.Type,
		Scope:               r.Scope,
		Subject:             r.Subject,
		Body:                r.Body,
		Breaking:            r.Breaking,
		BreakingDescription: r.BreakingDescription,
	}
}

// Request carries the repository context sent along with the diff.
type Request struct {
	Branch           string
	Files            []string
	AvailableTypes   []string
	AvailableScopes  []string
	RecentCommits    []string
	MaxSubjectLength int
}
