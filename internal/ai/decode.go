package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned by DecodeJSON when the text holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

// DecodeJSON parses a model reply into v. Replies wrapped in Markdown code
// fences or surrounded by prose are accepted as long as they contain one JSON object.
func DecodeJSON(text string, v any) error {
	js := StripCodeFences(text)
	err := json.Unmarshal([]byte(js), v)
	if err == nil {
		return nil
	}
	s := findFirstJSON(js)
	if s == "" {
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	if err2 := json.Unmarshal([]byte(s), v); err2 != nil {
		return fmt.Errorf("failed to parse model response as JSON: %w (original error: %v)", err2, err)
	}
	return nil
}

// StripCodeFences removes a surrounding ```lang ... ``` fence, if any.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstNewline := strings.Index(s, "\n"); firstNewline != -1 {
			s = s[firstNewline+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}

	return strings.TrimSpace(s)
}

// findFirstJSON returns the first balanced {...} span, skipping braces inside strings.
func findFirstJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
