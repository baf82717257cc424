// Package brandvoice turns sparse tenant brand data into a complete
// BrandVoiceContext and renders it as prompt fragments.
package brandvoice

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/jonathan/brand-content-engine/internal/visual"
)

// Hardcoded defaults used when neither the tenant nor the industry table supplies a value.
const (
	DefaultCompanyName = "Your Company"
	DefaultIndustry    = "General Business"
	DefaultExcerptLen  = 3000
)

// Normalizer builds BrandVoiceContexts. The zero value uses DefaultExcerptLen.
type Normalizer struct {
	// ExcerptLength caps websiteContentExcerpt, in runes.
	ExcerptLength int
}

// Normalize resolves every field using the default Normalizer.
func Normalize(raw *types.RawBrandVoice) *types.BrandVoiceContext {
	return Normalizer{}.Normalize(raw)
}

// Normalize resolves each field as: explicit raw value, then the industry
// table, then a hardcoded default. It never fails; nil raw is valid.
func (n Normalizer) Normalize(raw *types.RawBrandVoice) *types.BrandVoiceContext {
	if raw == nil {
		raw = &types.RawBrandVoice{}
	}

	industry := firstNonEmpty(raw.Industry, DefaultIndustry)
	profile := LookupIndustry(industry)

	ctx := &types.BrandVoiceContext{
		CompanyName:           firstNonEmpty(raw.CompanyName, DefaultCompanyName),
		Industry:              industry,
		TargetAudience:        firstNonEmpty(raw.TargetAudience, profile.TargetAudience, genericProfile.TargetAudience),
		Tone:                  firstNonEmpty(raw.Tone, profile.Tone, genericProfile.Tone),
		Keywords:              firstNonEmptyList(cleanList(raw.Keywords), profile.Keywords, genericProfile.Keywords),
		PainPoints:            firstNonEmptyList(cleanList(raw.PainPoints), profile.PainPoints, genericProfile.PainPoints),
		WebsiteContentExcerpt: truncate(collapseWhitespace(raw.WebsiteContent), n.excerptLength()),
		SocialSamples:         cleanList(raw.SocialSamples),
		Raw:                   raw,
	}

	if raw.VisualStyleProfile != nil && strings.TrimSpace(raw.VisualStyleProfile.Mood) != "" {
		ctx.VisualStyleProfile = *raw.VisualStyleProfile
	} else {
		ctx.VisualStyleProfile = visual.Fallback(industry)
	}

	ctx.Colors = firstNonEmptyList(cleanList(raw.Colors), paletteOf(ctx.VisualStyleProfile, raw.VisualStyleProfile != nil), profile.Colors)

	if ctx.SocialSamples == nil {
		ctx.SocialSamples = []string{}
	}
	return ctx
}

func (n Normalizer) excerptLength() int {
	if n.ExcerptLength > 0 {
		return n.ExcerptLength
	}
	return DefaultExcerptLen
}

// paletteOf returns the profile's primary and secondary colors when the
// profile came from the tenant rather than the fallback table.
func paletteOf(p types.VisualStyleProfile, fromTenant bool) []string {
	if !fromTenant {
		return nil
	}
	return cleanList([]string{p.ExactColors.Primary, p.ExactColors.Secondary})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return append([]string(nil), l...)
		}
	}
	return []string{}
}

// cleanList trims entries, drops blanks and removes case-insensitive duplicates.
func cleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most max runes without splitting a rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
