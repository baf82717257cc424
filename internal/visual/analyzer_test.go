package visual

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/brand-content-engine/internal/llm/llmtest"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

const modelProfile = `{"mood": "Calm & Trustworthy", "designStyle": "Minimalist", "exactColors": {"primary": "#0A84FF", "secondary": "#5E5CE6"}, "typography": "SF Pro", "visualEffects": "Large radius", "energyLevel": "low", "keyCharacteristics": ["Whitespace"]}`

func longExcerpt() string {
	return strings.Repeat("We build inventory forecasting tools for independent retailers. ", 3)
}

func TestFallback_IndustryRules(t *testing.T) {
	tests := []struct {
		industry string
		mood     string
		energy   string
	}{
		{"Amazon Selling", "Bold & Dynamic", "high"},
		{"E-Commerce Retail", "Bold & Dynamic", "high"},
		{"B2B SaaS", "Modern & Clean", "medium"},
		{"Enterprise Software", "Modern & Clean", "medium"},
		{"Digital Marketing Agency", "Bold & Dynamic", "high"},
		{"Accounting", "Professional & Corporate", "medium"},
		{"", "Professional & Corporate", "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.industry, func(t *testing.T) {
			p := Fallback(tt.industry)
			assert.Equal(t, tt.mood, p.Mood)
			assert.Equal(t, tt.energy, p.EnergyLevel)
			assert.False(t, p.Analyzed)
			assert.Equal(t, types.AnalysisFallback, p.AnalysisType)
			assert.NotEmpty(t, p.ExactColors.Primary)
			assert.NotEmpty(t, p.KeyCharacteristics)
		})
	}
}

func TestFallback_ProfilesAreIndependentCopies(t *testing.T) {
	a := Fallback("saas")
	a.KeyCharacteristics[0] = "mutated"
	b := Fallback("saas")
	assert.NotEqual(t, "mutated", b.KeyCharacteristics[0])
}

func TestAnalyze_NoModelAmazon(t *testing.T) {
	a := NewAnalyzer(nil, nil)
	p := a.Analyze(context.Background(), &types.BrandVoiceContext{Industry: "Amazon Selling"}, nil)

	assert.False(t, p.Analyzed)
	assert.Equal(t, "Bold & Dynamic", p.Mood)
	assert.Equal(t, "high", p.EnergyLevel)

	_, err := json.Marshal(p)
	assert.NoError(t, err)
}

func TestAnalyze_NilContext(t *testing.T) {
	a := NewAnalyzer(llmtest.New(), nil)
	p := a.Analyze(context.Background(), nil, nil)
	assert.Equal(t, "Professional & Corporate", p.Mood)
}

func TestAnalyze_CachedProfileReturnedUnchanged(t *testing.T) {
	fake := llmtest.New()
	a := NewAnalyzer(fake, nil)
	cached := types.VisualStyleProfile{Mood: "Cached", Analyzed: true, AnalysisType: types.AnalysisText}

	p := a.Analyze(context.Background(), &types.BrandVoiceContext{
		Industry:              "SaaS",
		WebsiteContentExcerpt: longExcerpt(),
		VisualStyleProfile:    cached,
	}, nil)

	assert.Equal(t, cached, p)
	assert.Equal(t, 0, fake.CallCount())
}

func TestAnalyze_ScreenshotInvalidatesCache(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: "```json\n" + modelProfile + "\n```"})
	a := NewAnalyzer(fake, nil)

	p := a.Analyze(context.Background(), &types.BrandVoiceContext{
		Industry:           "SaaS",
		VisualStyleProfile: types.VisualStyleProfile{Mood: "Cached", Analyzed: true},
	}, pngHeader)

	assert.Equal(t, "Calm & Trustworthy", p.Mood)
	assert.True(t, p.Analyzed)
	assert.Equal(t, types.AnalysisScreenshot, p.AnalysisType)
	require.Equal(t, 1, fake.CallCount())
	assert.True(t, fake.Calls()[0].HasImage)
}

func TestAnalyze_TextPath(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: modelProfile})
	a := NewAnalyzer(fake, nil)

	p := a.Analyze(context.Background(), &types.BrandVoiceContext{
		CompanyName:           "Stockwise",
		Industry:              "SaaS",
		WebsiteContentExcerpt: longExcerpt(),
	}, nil)

	assert.True(t, p.Analyzed)
	assert.Equal(t, types.AnalysisText, p.AnalysisType)
	assert.Equal(t, "Minimalist", p.DesignStyle)
	// blanks filled from the fallback palette
	assert.Equal(t, Fallback("SaaS").ExactColors.Background, p.ExactColors.Background)
	assert.Contains(t, fake.Calls()[0].Prompt, "Stockwise")
}

func TestAnalyze_ShortTextUsesFallback(t *testing.T) {
	fake := llmtest.New(llmtest.Response{Text: modelProfile})
	a := NewAnalyzer(fake, nil)

	p := a.Analyze(context.Background(), &types.BrandVoiceContext{Industry: "SaaS", WebsiteContentExcerpt: "too short"}, nil)

	assert.False(t, p.Analyzed)
	assert.Equal(t, 0, fake.CallCount())
}

func TestAnalyze_FailuresDegradeToFallback(t *testing.T) {
	tests := []struct {
		name string
		resp llmtest.Response
	}{
		{name: "call error", resp: llmtest.Response{Err: errors.New("timeout")}},
		{name: "not json", resp: llmtest.Response{Text: "I think the brand is blue."}},
		{name: "schema mismatch", resp: llmtest.Response{Text: `{"mood": "x"}`}},
		{name: "bad energy", resp: llmtest.Response{Text: `{"mood": "x", "designStyle": "y", "exactColors": {"primary": "#fff"}, "energyLevel": "extreme"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(llmtest.New(tt.resp), nil)
			p := a.Analyze(context.Background(), &types.BrandVoiceContext{Industry: "marketing agency"}, pngHeader)
			assert.False(t, p.Analyzed)
			assert.Equal(t, types.AnalysisFallback, p.AnalysisType)
			assert.Equal(t, "high", p.EnergyLevel)
		})
	}
}

func TestImageFormat(t *testing.T) {
	assert.Equal(t, "png", imageFormat(pngHeader))
	assert.Equal(t, "jpeg", imageFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}))
	assert.Equal(t, "png", imageFormat([]byte("plain text")))
}
