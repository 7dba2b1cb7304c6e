package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a Markdown code-fence wrapper from model output.
// Handles an opening fence with or without a language tag and an optional
// closing fence. Input without fences is returned trimmed.
func StripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		// A lone fence marker; nothing useful behind it.
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	// Drop the opening fence line (```, ```json, ...).
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseJSONObject strips code fences and parses the result as a JSON object.
func ParseJSONObject(content string) (map[string]any, error) {
	cleaned := StripCodeFences(content)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return parsed, nil
}

// Truncate shortens s for log output.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
