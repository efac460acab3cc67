package prompt

import (
	"fmt"
	"strings"

	"github.com/buker/convey/internal/commit"
)

// maxRecentCommits caps how many recent subjects are shown to the provider.
const maxRecentCommits = 5

// Context is the repository state surrounding a staged diff.
type Context struct {
	Branch          string
	Files           []string
	AvailableTypes  []string
	AvailableScopes []string
	RecentCommits   []string
}

// DiffContext pairs a Context with the (already truncated) diff. It is built
// fresh for every generation and never persisted.
type DiffContext struct {
	Context
	Diff string
}

// ResponseFields lists, in order, the keys a provider must return.
var ResponseFields = []string{
	"type", "scope", "subject", "body", "breaking", "breakingDescription", "confidence", "reasoning",
}

// BuildSystemPrompt renders the fixed instructions: output shape, the
// enumerated types, formatting rules and the JSON response contract.
// An empty types list means commit.DefaultTypes; maxSubject <= 0 means
// commit.DefaultMaxSubjectLength.
func BuildSystemPrompt(types []string, maxSubject int) string {
	if len(types) == 0 {
		types = commit.DefaultTypes
	}
	if maxSubject <= 0 {
		maxSubject = commit.DefaultMaxSubjectLength
	}

	var typeList strings.Builder
	for _, t := range types {
		if desc := commit.TypeDescription(t); desc != "" {
			fmt.Fprintf(&typeList, "- %s: %s\n", t, desc)
		} else {
			fmt.Fprintf(&typeList, "- %s\n", t)
		}
	}

	return fmt.Sprintf(`You are an expert at writing git commit messages that follow the Conventional Commits specification.

Commit message format:
<type>(<scope>): <subject>

[optional body]

[optional footer]

Available types:
%s
Rules:
- type must be exactly one of: %s
- scope is optional; use a short lowercase noun (letters, digits, hyphens) naming the affected area
- subject uses the imperative mood, starts with a lowercase letter and does not end with a period
- subject is at most %d characters
- body is optional; when present it explains what changed and why, in at least 10 characters
- for a breaking change add "!" after the type/scope and describe it in a "BREAKING CHANGE: <description>" footer

Respond with a single JSON object and nothing else. No markdown, no code fences, no commentary.
The object must have exactly these fields:
{
  "type": "one of the available types",
  "scope": "optional scope or empty string",
  "subject": "short imperative description",
  "body": "optional longer description or empty string",
  "breaking": false,
  "breakingDescription": "description of the breaking change or empty string",
  "confidence": 0-100,
  "reasoning": "one sentence explaining the choice of type and scope"
}`, typeList.String(), strings.Join(types, ", "), maxSubject)
}

// BuildUserPrompt renders the per-change prompt: branch, changed files,
// suggested scopes, up to five recent commit subjects, the diff verbatim and
// a closing instruction.
func BuildUserPrompt(diff string, ctx Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Branch: %s\n", ctx.Branch)
	fmt.Fprintf(&b, "Changed files: %s\n", strings.Join(ctx.Files, ", "))

	if len(ctx.AvailableScopes) > 0 {
		fmt.Fprintf(&b, "Suggested scopes: %s\n", strings.Join(ctx.AvailableScopes, ", "))
	}

	if len(ctx.RecentCommits) > 0 {
		b.WriteString("\nRecent commits (for style reference):\n")
		recent := ctx.RecentCommits
		if len(recent) > maxRecentCommits {
			recent = recent[:maxRecentCommits]
		}
		for i, subject := range recent {
			fmt.Fprintf(&b, "%d. %s\n", i+1, subject)
		}
	}

	b.WriteString("\nGit diff:\n")
	b.WriteString(diff)
	b.WriteString("\n\nAnalyze the changes above and respond with the JSON object described in the instructions.")

	return b.String()
}
