package templates

import (
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFacts() TenantFacts {
	return TenantFacts{
		CompanyName:    "Shelf Labs",
		Industry:       "Amazon Selling",
		TargetAudience: "Private label founders",
		Tone:           "Direct",
		Keywords:       []string{"flat files", "PPC"},
		PainPoints:     []string{"compliance issues"},
		WebsiteExcerpt: strings.Repeat("x", 5000),
	}
}

func TestBuildRequest_LinkedInPost(t *testing.T) {
	req, err := BuildRequest(types.KindLinkedInPost, sampleFacts())
	require.NoError(t, err)

	assert.Equal(t, "linkedin-post-v3", req.ScaffoldVersion)
	assert.Equal(t, llm.TierAdvanced, req.Tier)
	assert.Contains(t, req.Prompt, "Company: Shelf Labs")
	assert.Contains(t, req.Prompt, "flat files, PPC")
	assert.Contains(t, req.Prompt, "HOOK PATTERNS")
	assert.Contains(t, req.Prompt, "SELF-CHECK")

	// input placeholders reach the model literally
	assert.True(t, prompts.HasPlaceholder(req.Prompt, "Hook"))
	assert.True(t, prompts.HasPlaceholder(req.Prompt, "Pillar"))
	assert.False(t, prompts.HasPlaceholder(req.Prompt, "CompanyName"))

	// excerpt is capped by the scaffold
	assert.NotContains(t, req.Prompt, strings.Repeat("x", 1501))
	assert.Contains(t, req.Prompt, strings.Repeat("x", 1500))
}

func TestBuildRequest_IsPure(t *testing.T) {
	a, err := BuildRequest(types.KindHook, sampleFacts())
	require.NoError(t, err)
	b, err := BuildRequest(types.KindHook, sampleFacts())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, prompts.HasPlaceholder(a.Prompt, "Transcript"))
}

func TestBuildRequest_NoExcerpt(t *testing.T) {
	facts := sampleFacts()
	facts.WebsiteExcerpt = ""
	req, err := BuildRequest(types.KindLinkedInPost, facts)
	require.NoError(t, err)
	assert.Contains(t, req.Prompt, "(no website content available)")
}

func TestBuildRequest_UnknownKind(t *testing.T) {
	_, err := BuildRequest("carousel", sampleFacts())
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestStaticTemplate(t *testing.T) {
	post := StaticTemplate(types.KindLinkedInPost)
	assert.True(t, HasGuardrails(post))
	assert.True(t, prompts.HasPlaceholder(post, "Hook"))

	assert.True(t, prompts.HasPlaceholder(StaticTemplate(types.KindHook), "Transcript"))
	assert.True(t, prompts.HasPlaceholder(StaticTemplate(types.KindImage), "PostContent"))
	assert.Empty(t, StaticTemplate("carousel"))
}

func TestCleanTemplate(t *testing.T) {
	assert.Equal(t, "ROLE\nbody", cleanTemplate("```text\nROLE\nbody\n```"))
	assert.Equal(t, "ROLE\nbody", cleanTemplate("```\nROLE\nbody\n```\n"))
	assert.Equal(t, "plain", cleanTemplate("  plain \n"))
	assert.Equal(t, "", cleanTemplate("```"))
}
