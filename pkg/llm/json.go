package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// DecodeJSON unmarshals a model response that should contain a JSON object.
func DecodeJSON(content string, out any) error {
	cleaned := cleanJSONResponse(content)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to parse response: %w, content: %s", err, cleaned)
	}
	return nil
}
