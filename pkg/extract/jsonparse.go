package extract

import (
	"fmt"
	"strings"
)

// extractJSON pulls a JSON value out of an LLM response that may wrap it in
// markdown fences or surrounding prose. open and close are the value's
// delimiters: "[" and "]" for arrays, "{" and "}" for objects.
func extractJSON(content, open, close string) (string, error) {
	content = strings.TrimSpace(content)

	if strings.Contains(content, "```") {
		parts := strings.Split(content, "```")
		if len(parts) >= 2 {
			content = parts[1]
			content = strings.TrimPrefix(content, "json")
			content = strings.TrimSpace(content)
		}
	}

	start := strings.Index(content, open)
	end := strings.LastIndex(content, close)
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no %s...%s value in response", open, close)
	}
	return content[start : end+1], nil
}
