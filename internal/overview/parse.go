package overview

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON strips a markdown code fence (with or without a language tag)
// or any prose around the outermost JSON object
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	startIdx := strings.Index(response, "```")
	if startIdx == -1 {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start == -1 || end < start {
			return response
		}
		return response[start : end+1]
	}

	rest := response[startIdx+3:]
	endIdx := strings.Index(rest, "```")
	if endIdx == -1 {
		return response
	}
	content := strings.TrimSpace(rest[:endIdx])

	// drop the language identifier, e.g. "json"
	if nl := strings.IndexByte(content, '\n'); nl != -1 && !strings.HasPrefix(content, "{") {
		content = content[nl+1:]
	}
	return strings.TrimSpace(content)
}

// parseOverview decodes the narrator's answer. Each key must be a string or
// a list of strings, which is joined with newlines.
func parseOverview(response string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return coerce(raw)
}

func coerce(raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrUnexpectedShape, key)
		}

		switch v := value.(type) {
		case string:
			out[key] = v
		case []any:
			lines := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %q holds a non-string item", ErrUnexpectedShape, key)
				}
				lines = append(lines, s)
			}
			out[key] = strings.Join(lines, "\n")
		default:
			return nil, fmt.Errorf("%w: %q is %T", ErrUnexpectedShape, key, value)
		}
	}
	return out, nil
}
