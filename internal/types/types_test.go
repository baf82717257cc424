package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobProcessing.Terminal())
	assert.True(t, JobComplete.Terminal())
	assert.True(t, JobFailed.Terminal())
}

func TestTemplateKind_Valid(t *testing.T) {
	for _, kind := range AllTemplateKinds {
		assert.True(t, kind.Valid(), kind)
	}
	assert.False(t, TemplateKind("carousel").Valid())
	assert.False(t, TemplateKind("").Valid())
}

func TestTenant_Prompt(t *testing.T) {
	var nilTenant *Tenant
	_, ok := nilTenant.Prompt(KindHook)
	assert.False(t, ok)

	now := time.Now()
	tenant := &Tenant{Prompts: map[TemplateKind]StoredPrompt{
		KindHook:  {Body: "Find hooks", GeneratedAt: &now},
		KindImage: {},
	}}

	p, ok := tenant.Prompt(KindHook)
	assert.True(t, ok)
	assert.Equal(t, "Find hooks", p.Body)

	_, ok = tenant.Prompt(KindImage)
	assert.False(t, ok, "empty body counts as missing")
	assert.True(t, tenant.HasCustomPrompts())

	assert.False(t, (&Tenant{}).HasCustomPrompts())
}

func TestBrandVoiceContext_ToRaw(t *testing.T) {
	var nilCtx *BrandVoiceContext
	assert.Nil(t, nilCtx.ToRaw())

	c := &BrandVoiceContext{
		CompanyName:           "Shelf Labs",
		Keywords:              []string{"ppc"},
		WebsiteContentExcerpt: "We grow Amazon brands.",
		VisualStyleProfile:    VisualStyleProfile{Mood: "bold"},
	}
	raw := c.ToRaw()
	assert.Equal(t, "Shelf Labs", raw.CompanyName)
	assert.Equal(t, "We grow Amazon brands.", raw.WebsiteContent)
	assert.Equal(t, "bold", raw.VisualStyleProfile.Mood)

	raw.Keywords[0] = "changed"
	raw.VisualStyleProfile.Mood = "calm"
	assert.Equal(t, "ppc", c.Keywords[0])
	assert.Equal(t, "bold", c.VisualStyleProfile.Mood)
}
