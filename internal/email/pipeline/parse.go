package pipeline

import (
	"encoding/json"
	"fmt"

	emaildomain "inboxtriage-backend/internal/email/domain"
)

// Parse extracts a category-to-summaries mapping from raw model output. The
// model is asked for bare JSON but routinely wraps it in prose or code
// fences, so Parse decodes the first balanced {...} span; when no span
// exists it falls back to decoding the whole text. Expected keys absent
// from the object default to empty slices (the model is allowed to omit an
// empty category); unexpected keys are dropped. Undecodable text yields
// ErrInvalidResponseFormat.
func Parse(raw string, keys []string) (map[string][]string, error) {
	candidate := extractObject(raw)
	if candidate == "" {
		candidate = raw
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", emaildomain.ErrInvalidResponseFormat, err)
	}

	result := make(map[string][]string, len(keys))
	for _, key := range keys {
		rawList, ok := decoded[key]
		if !ok {
			result[key] = []string{}
			continue
		}
		var list []string
		if err := json.Unmarshal(rawList, &list); err != nil {
			return nil, fmt.Errorf("%w: key %q is not a list of strings", emaildomain.ErrInvalidResponseFormat, key)
		}
		if list == nil {
			list = []string{}
		}
		result[key] = list
	}
	return result, nil
}

// extractObject returns the first balanced top-level {...} span in text,
// or "" when there is none. Depth is counted brace by brace from the first
// '{' to its matching '}', ignoring braces inside JSON strings, so nested
// objects and brace-bearing summaries do not truncate the span.
func extractObject(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
