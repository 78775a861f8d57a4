package llm

import (
	"encoding/json"
	"strings"
)

// Stage turns raw model text into a candidate JSON document.
type Stage func(raw string) (string, bool)

// JSONStages are tried in order; the first candidate that unmarshals wins.
var JSONStages = []Stage{StrictStage, LargestBraceSpanStage}

// StrictStage accepts the whole output after removing a Markdown code fence.
func StrictStage(raw string) (string, bool) {
	s := StripCodeFence(raw)
	return s, s != ""
}

// LargestBraceSpanStage keeps the text between the first '{' and the last '}'.
func LargestBraceSpanStage(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseJSON decodes raw into a T through JSONStages. Each attempt decodes into a fresh
// value, so a failed stage never leaks partial data.
func ParseJSON[T any](raw string) (T, error) {
	var zero T
	for _, stage := range JSONStages {
		candidate, ok := stage(raw)
		if !ok {
			continue
		}
		candidate = strings.TrimSpace(candidate)
		if !isObject(candidate) {
			continue
		}
		var out T
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
	}
	return zero, ErrMalformedOutput
}

// isObject reports whether s is a single JSON object. A bare null, array or scalar
// would decode into a zero-valued T without error.
func isObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// ParseText cleans a single plain-text answer such as a rewritten bullet.
func ParseText(raw string) (string, error) {
	s := StripCodeFence(raw)
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"•", "-", "*"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.Trim(s, "\"'“”")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMalformedOutput
	}
	return s, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
