package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("scaffolds.json", "linkedin-post-v3")
	require.NoError(t, err)
	assert.Contains(t, prompt, "INSTRUCTION TEMPLATE")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("templates.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestPlaceholders(t *testing.T) {
	keys := Placeholders("{{.Hook}} and {{.Pillar}} then {{.Hook}} again, not {{Hook}}")
	assert.Equal(t, []string{"Hook", "Pillar"}, keys)
	assert.True(t, HasPlaceholder("x {{.Hook}}", "Hook"))
	assert.False(t, HasPlaceholder("x {{ .Hook }}", "Hook"))
}

func TestBuiltInTemplates_CarryPrimaryPlaceholders(t *testing.T) {
	ClearCache()

	cases := map[string]string{
		"linkedin_post": "Hook",
		"hook":          "Transcript",
		"image":         "PostContent",
	}
	for key, placeholder := range cases {
		body, err := Get("templates.json", key)
		require.NoError(t, err)
		assert.True(t, HasPlaceholder(body, placeholder), "%s should contain {{.%s}}", key, placeholder)
	}
}

func TestScaffolds_RequestPlaceholdersFromModel(t *testing.T) {
	ClearCache()

	scaffold := MustGet("scaffolds.json", "linkedin-post-v3")
	for _, section := range []string{"HOOK PATTERNS", "STORY ARCHITECTURE", "ENGAGEMENT AMPLIFIERS", "SELF-CHECK"} {
		assert.Contains(t, scaffold, section)
	}
	assert.Contains(t, scaffold, "{{.Hook}}")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("pipeline.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "rewrite-post")
	assert.Contains(t, keys, "visual-screenshot-rubric")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("templates.json", "hook")
	require.NoError(t, err)
	prompt2, err := Get("templates.json", "hook")
	require.NoError(t, err)
	assert.Equal(t, prompt1, prompt2)
}
