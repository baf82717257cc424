// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") && !strings.Contains(firstLine, "[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractJSON strips code fences and surrounding prose from a model response
// and returns the first JSON object or array it contains. It returns nil when
// no parsable JSON is present.
func ExtractJSON(text string) json.RawMessage {
	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return nil
	}
	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned)
	}

	// Preamble or trailing commentary around the payload
	start := strings.IndexAny(cleaned, "{[")
	if start < 0 {
		return nil
	}
	closer := byte('}')
	if cleaned[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(cleaned, closer)
	if end <= start {
		return nil
	}
	candidate := cleaned[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil
	}
	return json.RawMessage(candidate)
}
