package brandvoice

import (
	"fmt"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/types"
)

// Mode selects a rendering of a BrandVoiceContext.
type Mode string

// Rendering modes
const (
	ModeStructured Mode = "structured"
	ModeNarrative  Mode = "narrative"
	ModeContext    Mode = "context"
)

// Format renders the context as a deterministic prompt fragment. Unknown
// modes render as structured. A nil context is normalized first.
func Format(c *types.BrandVoiceContext, mode Mode) string {
	if c == nil {
		c = Normalize(nil)
	}
	switch mode {
	case ModeNarrative:
		return formatNarrative(c)
	case ModeContext:
		return formatContext(c)
	default:
		return formatStructured(c)
	}
}

func formatStructured(c *types.BrandVoiceContext) string {
	var sb strings.Builder
	sb.WriteString("BRAND VOICE\n")
	fmt.Fprintf(&sb, "Company: %s\n", c.CompanyName)
	fmt.Fprintf(&sb, "Industry: %s\n", c.Industry)
	fmt.Fprintf(&sb, "Target audience: %s\n", c.TargetAudience)
	fmt.Fprintf(&sb, "Tone: %s\n", c.Tone)
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(c.Keywords, ", "))
	fmt.Fprintf(&sb, "Pain points: %s\n", strings.Join(c.PainPoints, ", "))
	fmt.Fprintf(&sb, "Brand colors: %s\n", strings.Join(c.Colors, ", "))
	fmt.Fprintf(&sb, "Visual style: %s, %s energy\n", c.VisualStyleProfile.DesignStyle, c.VisualStyleProfile.EnergyLevel)
	if len(c.SocialSamples) > 0 {
		sb.WriteString("Sample posts:\n")
		for _, s := range c.SocialSamples {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	return sb.String()
}

func formatNarrative(c *types.BrandVoiceContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is a %s company that speaks to %s. ", c.CompanyName, c.Industry, c.TargetAudience)
	fmt.Fprintf(&sb, "Its voice is %s. ", strings.ToLower(c.Tone))
	fmt.Fprintf(&sb, "Its audience struggles with %s, ", joinNatural(c.PainPoints))
	fmt.Fprintf(&sb, "and the brand talks about %s.", joinNatural(c.Keywords))
	if c.WebsiteContentExcerpt != "" {
		fmt.Fprintf(&sb, " In its own words: %q", truncate(c.WebsiteContentExcerpt, 280))
	}
	return sb.String()
}

func formatContext(c *types.BrandVoiceContext) string {
	parts := []string{
		"Company: " + c.CompanyName,
		"Industry: " + c.Industry,
		"Audience: " + c.TargetAudience,
		"Tone: " + c.Tone,
		"Keywords: " + strings.Join(c.Keywords, ", "),
	}
	return strings.Join(parts, " | ")
}

// joinNatural joins items as "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
