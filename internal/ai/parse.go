package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/buker/convey/internal/commit"
)

// defaultConfidence is used when a provider omits or garbles the confidence field.
const defaultConfidence = 50

// Response validation errors. All of them wrap ErrInvalidResponse.
var (
	ErrInvalidResponse        = errors.New("invalid provider response")
	ErrMissingType            = fmt.Errorf("%w: missing type", ErrInvalidResponse)
	ErrMissingSubject         = fmt.Errorf("%w: missing subject", ErrInvalidResponse)
	ErrResponseSubjectTooLong = fmt.Errorf("%w: subject too long", ErrInvalidResponse)
	ErrMultilineSubject       = fmt.Errorf("%w: subject spans several lines", ErrInvalidResponse)
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON locates the JSON object inside a provider reply. A fenced
// code block wins; otherwise the span from the first '{' to the last '}' is
// used; otherwise the trimmed reply is returned as is.
func ExtractJSON(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

// ParseJSON decodes text into a generic object.
func ParseJSON(text string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if parsed == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidResponse)
	}
	return parsed, nil
}

// ValidateResponse checks the fields a usable reply must carry. Unknown
// fields are ignored. maxSubject <= 0 means commit.DefaultMaxSubjectLength.
func ValidateResponse(parsed map[string]any, maxSubject int) error {
	if maxSubject <= 0 {
		maxSubject = commit.DefaultMaxSubjectLength
	}
	if s, _ := parsed["type"].(string); strings.TrimSpace(s) == "" {
		return ErrMissingType
	}
	subject, _ := parsed["subject"].(string)
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ErrMissingSubject
	}
	if strings.ContainsAny(subject, "\r\n") {
		return ErrMultilineSubject
	}
	if n := utf8.RuneCountInString(subject); n > maxSubject {
		return fmt.Errorf("%w (%d characters, max %d)", ErrResponseSubjectTooLong, n, maxSubject)
	}
	return nil
}

// ParseResponse extracts, decodes and validates a provider reply, then
// applies defaults: confidence 50 when absent (clamped to 0..100) and
// breaking false.
func ParseResponse(raw string, maxSubject int) (*Result, error) {
	parsed, err := ParseJSON(ExtractJSON(raw))
	if err != nil {
		return nil, err
	}
	if err := ValidateResponse(parsed, maxSubject); err != nil {
		return nil, err
	}

	r := &Result{
		Type:                stringField(parsed, "type"),
		Scope:               stringField(parsed, "scope"),
		Subject:             stringField(parsed, "subject"),
		Body:                stringField(parsed, "body"),
		BreakingDescription: stringField(parsed, "breakingDescription"),
		Reasoning:           stringField(parsed, "reasoning"),
		Confidence:          defaultConfidence,
	}
	if b, ok := parsed["breaking"].(bool); ok {
		r.Breaking = b
	}
	if c, ok := parsed["confidence"].(float64); ok {
		r.Confidence = clampConfidence(c)
	}
	return r, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// clampConfidence bounds c to 0..100 before converting, since an
// out-of-range float64 to int conversion is implementation-defined.
func clampConfidence(c float64) int {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return int(c)
}
