// Package analysis derives commit hints from the list of staged paths: which
// scopes are plausible and, for changes confined to docs, tests, CI or build
// files, which commit type fits. The hints feed the provider prompt and
// preselect the manual entry form; they are never enforced.
package analysis

import (
	"path/filepath"
	"sort"
	"strings"
)

// Path categories. Only the non-code ones map to a commit type.
const (
	catDocs  = "docs"
	catTest  = "test"
	catCI    = "ci"
	catBuild = "build"
	catChore = "chore"
	catCode  = "code"
)

// containers are directories whose children name the real area of a change.
var containers = map[string]bool{
	"cmd": true, "pkg": true, "internal": true, "src": true, "lib": true, "app": true,
}

// SuggestScopes returns candidate scopes for files. Configured scopes win
// when present; otherwise one candidate per changed area is derived from the
// paths. The result is sanitized to the scope alphabet, deduplicated and sorted.
func SuggestScopes(files []string, configured []string) []string {
	if len(configured) > 0 {
		return append([]string(nil), configured...)
	}

	set := make(map[string]struct{})
	for _, f := range files {
		if s := sanitizeScope(area(f)); s != "" {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SuggestScope returns the single area shared by every file, or "" when the
// change spans several areas.
func SuggestScope(files []string) string {
	var scope string
	for i, f := range files {
		candidate := sanitizeScope(area(f))
		if candidate == "" {
			return ""
		}
		if i == 0 {
			scope = candidate
			continue
		}
		if scope != candidate {
			return ""
		}
	}
	return scope
}

// SuggestType returns docs, test, ci, build or chore when every file falls in
// that category, and "" when source code is involved or files is empty.
func SuggestType(files []string) string {
	if len(files) == 0 {
		return ""
	}
	first := categorizePath(files[0])
	if first == catCode {
		return ""
	}
	for _, f := range files[1:] {
		if categorizePath(f) != first {
			return ""
		}
	}
	return first
}

// area returns the directory that best names where path lives: the child of
// a container directory, the top-level directory, or the file stem for files
// at the repository root.
func area(path string) string {
	path = filepath.ToSlash(strings.TrimSpace(path))
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		base := parts[0]
		return strings.TrimSuffix(base, filepath.Ext(base))
	case containers[parts[0]] && len(parts) > 2:
		return parts[1]
	default:
		return parts[0]
	}
}

func categorizePath(path string) string {
	lower := strings.ToLower(filepath.ToSlash(path))
	base := filepath.Base(lower)
	ext := filepath.Ext(lower)

	switch {
	case base == "readme" || strings.HasPrefix(base, "readme.") || strings.HasPrefix(base, "changelog") ||
		strings.HasPrefix(base, "license") || strings.HasPrefix(base, "contributing"):
		return catDocs
	case strings.HasPrefix(lower, "docs/") || ext == ".md" || ext == ".rst" || ext == ".adoc":
		return catDocs
	case strings.HasPrefix(lower, "test/") || strings.HasPrefix(lower, "tests/") ||
		strings.Contains(lower, "/test/") || strings.Contains(lower, "/tests/") || strings.Contains(lower, "/testdata/") ||
		strings.HasSuffix(base, "_test.go") || strings.Contains(base, ".spec.") || strings.Contains(base, ".test."):
		return catTest
	case strings.HasPrefix(lower, ".github/workflows/") || strings.HasPrefix(lower, ".github/actions/") ||
		strings.HasPrefix(lower, ".circleci/") || strings.HasPrefix(lower, ".gitlab-ci") ||
		base == "jenkinsfile" || base == "azure-pipelines.yml" || base == ".golangci.yml":
		return catCI
	case isBuildFile(base) || strings.HasPrefix(lower, "build/") || strings.HasPrefix(lower, "docker/"):
		return catBuild
	case base == ".gitignore" || base == ".gitattributes" || base == ".editorconfig" ||
		strings.HasPrefix(lower, "scripts/") || strings.HasPrefix(lower, ".vscode/"):
		return catChore
	}
	return catCode
}

func isBuildFile(base string) bool {
	switch base {
	case "makefile", "dockerfile", "go.mod", "go.sum", "package.json", "package-lock.json",
		"pnpm-lock.yaml", "yarn.lock", "cargo.toml", "cargo.lock", "pom.xml",
		"build.gradle", "build.gradle.kts", ".goreleaser.yml", ".goreleaser.yaml":
		return true
	}
	return false
}

// sanitizeScope lowercases s and keeps only letters, digits and hyphens,
// turning other separators into hyphens.
func sanitizeScope(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.' || r == ' ' || r == '/':
			b.WriteRune('-')
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}
