package templates

import "strings"

// GuardrailHeader opens the output format rules block. Detection is a
// case-insensitive substring match on this header.
const GuardrailHeader = "OUTPUT FORMAT RULES"

const guardrailBlock = GuardrailHeader + ` (always follow)
- Plain text only. No markdown, no bold, no headings, no bullet symbols other than simple dashes.
- First line is the hook and stands alone, followed by a blank line.
- Paragraphs are one or two short sentences separated by blank lines.
- At most three hashtags, all on the final line.
- No emojis unless the brand tone explicitly calls for them.
- Stay under 1,300 characters.`

// EnsureOutputFormatGuardrails appends the output format rules block unless
// body already contains an equivalent header. Applying it twice is a no-op.
func EnsureOutputFormatGuardrails(body string) string {
	if HasGuardrails(body) {
		return body
	}
	trimmed := strings.TrimRight(body, " \t\r\n")
	if trimmed == "" {
		return guardrailBlock
	}
	return trimmed + "\n\n" + guardrailBlock
}

// HasGuardrails reports whether body contains the guardrail header in any case.
func HasGuardrails(body string) bool {
	return strings.Contains(strings.ToLower(body), strings.ToLower(GuardrailHeader))
}
