package templates

import (
	"strings"
	"testing"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrimaryPlaceholder(t *testing.T) {
	assert.Equal(t, "Hook", PrimaryPlaceholder(types.KindLinkedInPost))
	assert.Equal(t, "Transcript", PrimaryPlaceholder(types.KindHook))
	assert.Equal(t, "PostContent", PrimaryPlaceholder(types.KindImage))
	assert.Equal(t, "", PrimaryPlaceholder("carousel"))
}

func TestRender_SubstitutesRecognizedPlaceholders(t *testing.T) {
	body := "Write for {{.CompanyName}}.\nHook: {{.Hook}}\nPillar: {{.Pillar}}\nContext: {{.MeetingSummary}}"
	out := Render(body, types.KindLinkedInPost, map[string]string{
		"CompanyName": "Shelf Labs",
		"Hook":        "Most listings fail on page one",
		"Pillar":      "Growth",
	})

	assert.Equal(t, "Write for Shelf Labs.\nHook: Most listings fail on page one\nPillar: Growth\nContext: ", out)
	assert.NotContains(t, out, "INPUT DATA")
}

func TestRender_AppendsInputDataWhenPrimaryMissing(t *testing.T) {
	body := "You write punchy LinkedIn posts for {{.CompanyName}}."
	out := Render(body, types.KindLinkedInPost, map[string]string{
		"CompanyName": "Shelf Labs",
		"Hook":        "Most listings fail on page one",
		"Pillar":      "Growth",
	})

	assert.Contains(t, out, "You write punchy LinkedIn posts for Shelf Labs.\n\nINPUT DATA\n")
	assert.Contains(t, out, "Hook: Most listings fail on page one\n")
	assert.Contains(t, out, "Content pillar: Growth\n")
	assert.NotContains(t, out, "Meeting context")
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	out := Render("{{.Transcript}} {{.Mystery}}", types.KindHook, map[string]string{"Transcript": "hello"})
	assert.Equal(t, "hello {{.Mystery}}", out)
}

func TestFactValues(t *testing.T) {
	bv := brandvoice.Normalize(&types.RawBrandVoice{CompanyName: "Acme", Keywords: []string{"a", "b"}})
	values := FactValues(bv)
	assert.Equal(t, "Acme", values["CompanyName"])
	assert.Equal(t, "a, b", values["Keywords"])
	assert.Contains(t, values, "WebsiteExcerpt")
	assert.Equal(t, brandvoice.Format(bv, brandvoice.ModeNarrative), values["BrandVoice"])
	assert.True(t, strings.HasPrefix(values["BrandVoice"], "Acme is a "+brandvoice.DefaultIndustry+" company"))
}

func TestRender_BrandVoicePlaceholder(t *testing.T) {
	bv := brandvoice.Normalize(&types.RawBrandVoice{CompanyName: "Acme"})
	out := Render("Voice: {{.BrandVoice}}\nHook: {{.Hook}}", types.KindLinkedInPost, FactValues(bv))
	assert.Equal(t, "Voice: "+brandvoice.Format(bv, brandvoice.ModeNarrative)+"\nHook: ", out)
}
