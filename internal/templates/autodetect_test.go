package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/llm/llmtest"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
)

var siteCopy = strings.Repeat("We run Amazon PPC and listing optimization for private label brands. ", 3)

func detectManager(resp llmtest.Response) (*Manager, *llmtest.Client) {
	fake := llmtest.New()
	fake.Default = resp
	return NewManager(NewMemoryStore(), fake, nil), fake
}

func TestAutoDetect_FillsGenericFields(t *testing.T) {
	m, fake := detectManager(llmtest.Response{Text: "```json\n{\"industry\": \"Amazon Agency\", \"targetAudience\": \"Seven-figure Amazon sellers\", \"confidence\": 0.9}\n```"})
	bv := brandvoice.Normalize(&types.RawBrandVoice{CompanyName: "Shelf Labs", WebsiteContent: siteCopy})

	out := m.AutoDetectIndustryAndICP(context.Background(), bv)

	assert.Equal(t, "Amazon Agency", out.Industry)
	assert.Equal(t, "Seven-figure Amazon sellers", out.TargetAudience)
	assert.Contains(t, out.Keywords, "flat files")
	assert.Equal(t, "Shelf Labs", out.CompanyName)
	assert.Same(t, bv.Raw, out.Raw)
	assert.Equal(t, 1, fake.CallCount())
}

func TestAutoDetect_KeepsSpecificValues(t *testing.T) {
	m, fake := detectManager(llmtest.Response{Text: `{"industry": "Marketing", "targetAudience": "CMOs", "confidence": 0.95}`})
	bv := brandvoice.Normalize(&types.RawBrandVoice{Industry: "B2B SaaS", WebsiteContent: siteCopy})

	out := m.AutoDetectIndustryAndICP(context.Background(), bv)

	assert.Equal(t, "B2B SaaS", out.Industry)
	assert.Equal(t, "CMOs", out.TargetAudience)
	assert.Equal(t, 1, fake.CallCount())
}

func TestAutoDetect_SkipsWhenNothingGeneric(t *testing.T) {
	m, fake := detectManager(llmtest.Response{})
	bv := brandvoice.Normalize(&types.RawBrandVoice{Industry: "SaaS", TargetAudience: "CTOs", WebsiteContent: siteCopy})

	assert.Same(t, bv, m.AutoDetectIndustryAndICP(context.Background(), bv))
	assert.Zero(t, fake.CallCount())
}

func TestAutoDetect_PassesThroughOnFailure(t *testing.T) {
	tests := []struct {
		name string
		resp llmtest.Response
	}{
		{"call error", llmtest.Response{Err: errors.New("503")}},
		{"no json", llmtest.Response{Text: "I think it's retail."}},
		{"schema", llmtest.Response{Text: `{"industry": "x"}`}},
		{"low confidence", llmtest.Response{Text: `{"industry": "Pet supplies", "targetAudience": "Dog owners", "confidence": 0.2}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := detectManager(tt.resp)
			bv := brandvoice.Normalize(&types.RawBrandVoice{WebsiteContent: siteCopy})
			assert.Same(t, bv, m.AutoDetectIndustryAndICP(context.Background(), bv))
		})
	}
}

func TestAutoDetect_NoClientOrShortText(t *testing.T) {
	bv := brandvoice.Normalize(nil)
	m := NewManager(NewMemoryStore(), nil, nil)
	assert.Same(t, bv, m.AutoDetectIndustryAndICP(context.Background(), bv))

	m2, fake := detectManager(llmtest.Response{})
	assert.Same(t, bv, m2.AutoDetectIndustryAndICP(context.Background(), bv))
	assert.Zero(t, fake.CallCount())
}
