package content

import (
	"encoding/json"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "bare string",
			raw:      `"write a song"`,
			expected: "write a song",
		},
		{
			name:     "bare string trims whitespace",
			raw:      `"  write a song \n"`,
			expected: "write a song",
		},
		{
			name:     "content string field",
			raw:      `{"role": "user", "content": "draft a release plan"}`,
			expected: "draft a release plan",
		},
		{
			name:     "text field",
			raw:      `{"text": "segment my fanbase"}`,
			expected: "segment my fanbase",
		},
		{
			name:     "parts array",
			raw:      `{"role": "user", "parts": [{"type": "text", "text": "hello"}, {"type": "text", "text": "world"}]}`,
			expected: "hello world",
		},
		{
			name:     "nested reasoning details",
			raw:      `{"parts": [{"type": "reasoning", "details": [{"type": "text", "text": "thinking"}]}, {"type": "text", "text": "answer"}]}`,
			expected: "thinking answer",
		},
		{
			name:     "content holds nested parts",
			raw:      `{"content": {"parts": [{"text": "nested"}]}}`,
			expected: "nested",
		},
		{
			name:     "empty object",
			raw:      `{}`,
			expected: "",
		},
		{
			name:     "unparseable content",
			raw:      `not json at all`,
			expected: "",
		},
		{
			name:     "null content",
			raw:      `null`,
			expected: "",
		},
		{
			name:     "number content",
			raw:      `42`,
			expected: "",
		},
		{
			name:     "parts without text payloads",
			raw:      `{"parts": [{"type": "tool-call", "toolName": "search"}]}`,
			expected: "",
		},
		{
			name:     "whitespace-only text skipped",
			raw:      `{"parts": [{"text": "   "}, {"text": "kept"}]}`,
			expected: "kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText(json.RawMessage(tt.raw))
			if got != tt.expected {
				t.Errorf("ExtractText(%s) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestExtractTextEmpty(t *testing.T) {
	if got := ExtractText(nil); got != "" {
		t.Errorf("ExtractText(nil) = %q, want empty", got)
	}
}

func TestExtractTextDepthLimit(t *testing.T) {
	// Build nesting deeper than the recursion cap; the innermost text must
	// not be reached and extraction must not blow the stack
	raw := `{"parts": [{"details": [{"children": [{"details": [{"children": [{"details": [{"children": [{"text": "too deep"}]}]}]}]}]}]}]}`
	if got := ExtractText(json.RawMessage(raw)); got != "" {
		t.Errorf("ExtractText deep nesting = %q, want empty", got)
	}
}

func TestExtractRole(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "user role",
			raw:      `{"role": "user", "content": "hi"}`,
			expected: "user",
		},
		{
			name:     "role normalized to lowercase",
			raw:      `{"role": " Assistant "}`,
			expected: "assistant",
		},
		{
			name:     "missing role",
			raw:      `{"content": "hi"}`,
			expected: "",
		},
		{
			name:     "bare string has no role",
			raw:      `"hi"`,
			expected: "",
		},
		{
			name:     "unparseable",
			raw:      `oops`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRole(json.RawMessage(tt.raw))
			if got != tt.expected {
				t.Errorf("ExtractRole(%s) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}
