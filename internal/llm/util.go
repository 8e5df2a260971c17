// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers and surrounding prose
// from a model reply, returning the first balanced JSON object it finds.
// Text without one is returned trimmed.
func CleanJSONBlock(text string) string {
	text = stripFences(strings.TrimSpace(text))
	if value, ok := ExtractJSONObject(text); ok {
		return value
	}
	return text
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the first balanced {...} substring of text.
// Braces and brackets must nest properly and are ignored inside string
// literals. When the object starting at one '{' never closes, the scan
// resumes at the next '{'.
func ExtractJSONObject(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '{')
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		if end, ok := matchObject(text, start); ok {
			return text[start:end], true
		}
		offset = start + 1
	}
	return "", false
}

// matchObject scans from the '{' at start and returns the index just past
// its closing '}'.
func matchObject(text string, start int) (int, bool) {
	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// DecodeJSON cleans a model reply and unmarshals it into v.
func DecodeJSON(reply string, v any) error {
	cleaned := CleanJSONBlock(reply)
	if cleaned == "" {
		return &ParseError{Message: "empty reply"}
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Message: "invalid JSON", Content: cleaned, Cause: err}
	}
	return nil
}
