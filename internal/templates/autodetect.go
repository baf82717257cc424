package templates

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/schemas"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/jonathan/brand-content-engine/internal/visual"
)

// MinDetectionConfidence is the lowest model confidence accepted for an
// inferred industry or audience.
const MinDetectionConfidence = 0.5

type industryICP struct {
	Industry       string   `json:"industry"`
	TargetAudience string   `json:"targetAudience"`
	Confidence     *float64 `json:"confidence"`
}

// AutoDetectIndustryAndICP fills a missing or generic industry and target
// audience from the website excerpt. Values the tenant supplied specifically
// are never replaced. On any failure bv is returned unchanged.
func (m *Manager) AutoDetectIndustryAndICP(ctx context.Context, bv *types.BrandVoiceContext) *types.BrandVoiceContext {
	if bv == nil || m.client == nil {
		return bv
	}
	raw := bv.Raw
	if raw == nil {
		raw = bv.ToRaw()
	}
	needIndustry := brandvoice.IsGenericIndustry(raw.Industry)
	needAudience := brandvoice.IsGenericAudience(raw.TargetAudience)
	if !needIndustry && !needAudience {
		return bv
	}
	if len(strings.TrimSpace(bv.WebsiteContentExcerpt)) < visual.MinTextLength {
		return bv
	}

	prompt := llm.BuildExtractionPrompt(llm.IndustryICPSchema(), bv.WebsiteContentExcerpt)
	text, err := m.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		m.log.Warn("industry detection failed", "error", err)
		return bv
	}
	doc := llm.ExtractJSON(text)
	if doc == nil {
		m.log.Warn("industry detection returned no JSON")
		return bv
	}
	if err := schemas.Validate(schemas.IndustryICP, doc); err != nil {
		m.log.Warn("industry detection failed schema validation", "error", err)
		return bv
	}
	var detected industryICP
	if err := json.Unmarshal(doc, &detected); err != nil {
		return bv
	}
	if detected.Confidence != nil && *detected.Confidence < MinDetectionConfidence {
		m.log.Debug("industry detection below confidence threshold", "confidence", *detected.Confidence)
		return bv
	}

	merged := *raw
	if needIndustry && !brandvoice.IsGenericIndustry(detected.Industry) {
		merged.Industry = strings.TrimSpace(detected.Industry)
	}
	if needAudience && !brandvoice.IsGenericAudience(detected.TargetAudience) {
		merged.TargetAudience = strings.TrimSpace(detected.TargetAudience)
	}
	m.log.Info("detected industry and audience", "industry", merged.Industry, "audience", merged.TargetAudience)

	out := m.normalizer.Normalize(&merged)
	out.Raw = bv.Raw
	return out
}
