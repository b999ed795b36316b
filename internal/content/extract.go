package content

import (
	"encoding/json"
	"strings"
)

/* The memories.content column is JSONB written by several generations of the
 * chat pipeline, so the shape is inconsistent: a bare string, {content: "..."},
 * {parts: [{type: "text", text: "..."}]}, or parts with nested reasoning
 * blocks carrying their own details. Extraction is best-effort: unparseable
 * or empty content yields "" rather than an error. */

const maxDepth = 6

// ExtractText extracts the plain text of a message from raw JSONB content
func ExtractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	/* Bare JSON string */
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}

	var texts []string
	collect(obj, 0, &texts)
	return strings.TrimSpace(strings.Join(texts, " "))
}

// ExtractRole extracts the message role ("user", "assistant", ...) when the
// content object carries one; returns "" otherwise
func ExtractRole(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if role, ok := obj["role"].(string); ok {
		return strings.ToLower(strings.TrimSpace(role))
	}
	return ""
}

func collect(v interface{}, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}

	switch val := v.(type) {
	case map[string]interface{}:
		/* text parts carry their payload under "text"; reasoning blocks nest
		 * further parts under "details" or "children" */
		if text, ok := val["text"].(string); ok {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				*out = append(*out, trimmed)
			}
		}
		if content, ok := val["content"]; ok {
			if text, isStr := content.(string); isStr {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					*out = append(*out, trimmed)
				}
			} else {
				collect(content, depth+1, out)
			}
		}
		for _, key := range []string{"parts", "details", "children"} {
			if nested, ok := val[key]; ok {
				collect(nested, depth+1, out)
			}
		}
	case []interface{}:
		for _, item := range val {
			collect(item, depth+1, out)
		}
	}
}
