// Package types provides type definitions for structured data used throughout the content engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RawBrandVoice is tenant brand data exactly as entered manually or scraped.
// Every field is optional; a nil *RawBrandVoice is a valid input to normalization.
type RawBrandVoice struct {
	CompanyName        string              `json:"companyName,omitempty"`
	Industry           string              `json:"industry,omitempty"`
	TargetAudience     string              `json:"targetAudience,omitempty"`
	Tone               string              `json:"tone,omitempty"`
	Keywords           []string            `json:"keywords,omitempty"`
	PainPoints         []string            `json:"painPoints,omitempty"`
	Colors             []string            `json:"colors,omitempty"`
	WebsiteURL         string              `json:"websiteUrl,omitempty"`
	WebsiteContent     string              `json:"websiteContent,omitempty"`
	SocialSamples      []string            `json:"socialSamples,omitempty"`
	VisualStyleProfile *VisualStyleProfile `json:"visualStyleProfile,omitempty"`
}

// BrandVoiceContext is the normalized, always-populated view of a tenant's brand.
// After normalization no field is empty or nil.
type BrandVoiceContext struct {
	CompanyName           string             `json:"companyName"`
	Industry              string             `json:"industry"`
	TargetAudience        string             `json:"targetAudience"`
	Tone                  string             `json:"tone"`
	Keywords              []string           `json:"keywords"`
	PainPoints            []string           `json:"painPoints"`
	Colors                []string           `json:"colors"`
	WebsiteContentExcerpt string             `json:"websiteContentExcerpt"`
	SocialSamples         []string           `json:"socialSamples"`
	VisualStyleProfile    VisualStyleProfile `json:"visualStyleProfile"`
	Raw                   *RawBrandVoice     `json:"raw"`
}

// ToRaw converts a normalized context back into raw form so it can be stored
// or normalized again.
func (c *BrandVoiceContext) ToRaw() *RawBrandVoice {
	if c == nil {
		return nil
	}
	profile := c.VisualStyleProfile
	return &RawBrandVoice{
		CompanyName:        c.CompanyName,
		Industry:           c.Industry,
		TargetAudience:     c.TargetAudience,
		Tone:               c.Tone,
		Keywords:           append([]string(nil), c.Keywords...),
		PainPoints:         append([]string(nil), c.PainPoints...),
		Colors:             append([]string(nil), c.Colors...),
		WebsiteContent:     c.WebsiteContentExcerpt,
		SocialSamples:      append([]string(nil), c.SocialSamples...),
		VisualStyleProfile: &profile,
	}
}

// Completeness reports how much of a tenant's brand data was supplied rather
// than filled from defaults.
type Completeness struct {
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
}
