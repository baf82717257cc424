package visual

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/schemas"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// MinTextLength is the shortest website excerpt worth sending for text analysis.
const MinTextLength = 50

// Analyzer infers VisualStyleProfiles. A nil client runs fallback-only.
type Analyzer struct {
	client llm.Client
	log    *logger.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(client llm.Client, log *logger.Logger) *Analyzer {
	return &Analyzer{client: client, log: logger.OrNop(log).With("component", "visual")}
}

// Analyze returns a complete profile for the brand. A non-empty screenshot
// always triggers a fresh analysis. Without one, an analyzed cached profile on
// the context is returned unchanged. Every failure degrades to Fallback.
func (a *Analyzer) Analyze(ctx context.Context, bv *types.BrandVoiceContext, screenshot []byte) types.VisualStyleProfile {
	industry := ""
	if bv != nil {
		industry = bv.Industry
	}

	if len(screenshot) > 0 {
		return a.analyzeScreenshot(ctx, bv, screenshot)
	}

	if bv != nil && bv.VisualStyleProfile.Analyzed {
		return bv.VisualStyleProfile
	}

	if a.client == nil || bv == nil || len(strings.TrimSpace(bv.WebsiteContentExcerpt)) < MinTextLength {
		return Fallback(industry)
	}
	return a.analyzeText(ctx, bv)
}

func (a *Analyzer) analyzeScreenshot(ctx context.Context, bv *types.BrandVoiceContext, screenshot []byte) types.VisualStyleProfile {
	industry, company := "", ""
	if bv != nil {
		industry, company = bv.Industry, bv.CompanyName
	}
	if a.client == nil {
		return Fallback(industry)
	}

	prompt := prompts.Format(prompts.MustGet("pipeline.json", "visual-screenshot-rubric"), map[string]string{
		"CompanyName": company,
		"Industry":    industry,
	})
	text, err := a.client.GenerateJSONWithImage(ctx, prompt, screenshot, imageFormat(screenshot), llm.TierStandard)
	if err != nil {
		a.log.Warn("screenshot analysis failed, using fallback", "error", err)
		return Fallback(industry)
	}
	profile, ok := a.parse(text, industry)
	if !ok {
		return Fallback(industry)
	}
	profile.AnalysisType = types.AnalysisScreenshot
	return profile
}

func (a *Analyzer) analyzeText(ctx context.Context, bv *types.BrandVoiceContext) types.VisualStyleProfile {
	input := "Company: " + bv.CompanyName + "\nIndustry: " + bv.Industry + "\n\n" + bv.WebsiteContentExcerpt
	prompt := llm.BuildExtractionPrompt(llm.VisualStyleSchema(), input)

	text, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		a.log.Warn("text visual analysis failed, using fallback", "error", err)
		return Fallback(bv.Industry)
	}
	profile, ok := a.parse(text, bv.Industry)
	if !ok {
		return Fallback(bv.Industry)
	}
	profile.AnalysisType = types.AnalysisText
	return profile
}

// parse extracts and validates a profile, filling blanks from the fallback so
// the result is always complete.
func (a *Analyzer) parse(text, industry string) (types.VisualStyleProfile, bool) {
	raw := llm.ExtractJSON(text)
	if raw == nil {
		a.log.Warn("visual analysis returned no JSON")
		return types.VisualStyleProfile{}, false
	}
	if err := schemas.Validate(schemas.VisualStyle, raw); err != nil {
		a.log.Warn("visual analysis failed schema validation", "error", err)
		return types.VisualStyleProfile{}, false
	}

	var profile types.VisualStyleProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		a.log.Warn("visual analysis JSON did not decode", "error", err)
		return types.VisualStyleProfile{}, false
	}

	base := Fallback(industry)
	fill(&profile.Typography, base.Typography)
	fill(&profile.VisualEffects, base.VisualEffects)
	fill(&profile.ExactColors.Secondary, base.ExactColors.Secondary)
	fill(&profile.ExactColors.Accent, base.ExactColors.Accent)
	fill(&profile.ExactColors.Background, base.ExactColors.Background)
	fill(&profile.ExactColors.Text, base.ExactColors.Text)
	if len(profile.KeyCharacteristics) == 0 {
		profile.KeyCharacteristics = base.KeyCharacteristics
	}
	profile.Analyzed = true
	return profile, true
}

func fill(dst *string, fallback string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = fallback
	}
}

// imageFormat returns the image subtype ("png", "jpeg", "webp") of data.
func imageFormat(data []byte) string {
	mime := http.DetectContentType(data)
	if sub, ok := strings.CutPrefix(mime, "image/"); ok {
		return sub
	}
	return "png"
}
