package commit

import (
	"regexp"
	"strings"
)

// headerPattern matches type(scope)!: subject. Type and scope are captured
// loosely so that Rules.Build can report a precise validation error.
var headerPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^()]*)\))?(!)?: (.+)$`)

var breakingFooters = []string{"BREAKING CHANGE: ", "BREAKING-CHANGE: "}

// Parse splits a formatted conventional commit back into its fields.
// It only checks the header shape; use Rules.Build on the result to validate.
func Parse(message string) (Fields, error) {
	message = strings.TrimSpace(strings.ReplaceAll(message, "\r\n", "\n"))
	if message == "" {
		return Fields{}, invalid("header", "", ErrInvalidFormat, "empty commit message")
	}

	header, rest, _ := strings.Cut(message, "\n")
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return Fields{}, invalid("header", header, ErrInvalidFormat, "expected type(scope): subject")
	}

	f := Fields{
		Type:     m[1],
		Scope:    m[2],
		Subject:  m[4],
		Breaking: m[3] == "!",
	}

	body, footer, found := cutBreakingFooter(strings.TrimSpace(rest))
	if found {
		f.Breaking = true
		f.BreakingDescription = footer
	}
	f.Body = body
	return f, nil
}

// cutBreakingFooter separates a trailing BREAKING CHANGE paragraph from the body.
func cutBreakingFooter(rest string) (body, footer string, found bool) {
	for _, marker := range breakingFooters {
		if strings.HasPrefix(rest, marker) {
			return "", strings.TrimSpace(rest[len(marker):]), true
		}
		if idx := strings.LastIndex(rest, "\n\n"+marker); idx != -1 {
			return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+2+len(marker):]), true
		}
	}
	return rest, "", false
}

// StripComments drops git comment lines (starting with '#') from a commit
// message file, along with everything after a scissors line.
func StripComments(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "# ------------------------ >8 ------------------------") {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
