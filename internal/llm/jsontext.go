package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips markdown fences and any prose around the outermost JSON object or array.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	open := strings.IndexAny(s, "{[")
	if open == -1 {
		return s
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < open {
		return s[open:]
	}
	return s[open : end+1]
}

// DecodeJSON parses a model reply into T after CleanJSON.
func DecodeJSON[T any](text string) (T, error) {
	var out T
	clean := CleanJSON(text)
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return out, fmt.Errorf("parse model json: %w", err)
	}
	return out, nil
}
