// Package visual infers a brand's visual style profile from a website
// screenshot or website text, with a deterministic rule-based fallback.
package visual

import (
	"strings"

	"github.com/jonathan/brand-content-engine/internal/types"
)

// styleRule maps an industry predicate to a fallback profile.
type styleRule struct {
	name    string
	matches func(industry string) bool
	profile func() types.VisualStyleProfile
}

func containsAny(subs ...string) func(string) bool {
	return func(industry string) bool {
		for _, s := range subs {
			if strings.Contains(industry, s) {
				return true
			}
		}
		return false
	}
}

// fallbackRules is evaluated in order; the last rule always matches.
var fallbackRules = []styleRule{
	{
		name:    "commerce",
		matches: containsAny("amazon", "ecommerce", "e-commerce"),
		profile: func() types.VisualStyleProfile {
			return types.VisualStyleProfile{
				Mood:        "Bold & Dynamic",
				DesignStyle: "Bold & Dynamic",
				ExactColors: types.ExactColors{
					Primary: "#FF9900", Secondary: "#232F3E", Accent: "#146EB4", Background: "#FFFFFF", Text: "#111111",
				},
				Typography:         "Heavy geometric sans-serif headlines with tight tracking",
				VisualEffects:      "High contrast, punchy color blocks, subtle drop shadows",
				EnergyLevel:        "high",
				KeyCharacteristics: []string{"Product-centric imagery", "Growth charts", "Strong calls to action"},
			}
		},
	},
	{
		name:    "software",
		matches: containsAny("saas", "software"),
		profile: func() types.VisualStyleProfile {
			return types.VisualStyleProfile{
				Mood:        "Modern & Clean",
				DesignStyle: "Modern & Clean",
				ExactColors: types.ExactColors{
					Primary: "#4F46E5", Secondary: "#0EA5E9", Accent: "#22C55E", Background: "#F8FAFC", Text: "#0F172A",
				},
				Typography:         "Clean sans-serif, medium weights, generous line height",
				VisualEffects:      "Rounded corners, soft shadows, light gradients",
				EnergyLevel:        "medium",
				KeyCharacteristics: []string{"Dashboard and UI motifs", "Plenty of whitespace", "Flat iconography"},
			}
		},
	},
	{
		name:    "marketing",
		matches: containsAny("marketing", "agency"),
		profile: func() types.VisualStyleProfile {
			return types.VisualStyleProfile{
				Mood:        "Bold & Dynamic",
				DesignStyle: "Bold & Dynamic",
				ExactColors: types.ExactColors{
					Primary: "#E11D48", Secondary: "#7C3AED", Accent: "#F59E0B", Background: "#FFFFFF", Text: "#18181B",
				},
				Typography:         "Expressive display headlines paired with a neutral sans-serif body",
				VisualEffects:      "Vibrant gradients, layered shapes, motion-inspired angles",
				EnergyLevel:        "high",
				KeyCharacteristics: []string{"Vivid color contrast", "People in action", "Campaign-style layouts"},
			}
		},
	},
	{
		name:    "default",
		matches: func(string) bool { return true },
		profile: func() types.VisualStyleProfile {
			return types.VisualStyleProfile{
				Mood:        "Professional & Corporate",
				DesignStyle: "Professional & Corporate",
				ExactColors: types.ExactColors{
					Primary: "#1E3A8A", Secondary: "#64748B", Accent: "#0EA5E9", Background: "#FFFFFF", Text: "#1F2937",
				},
				Typography:         "Classic sans-serif with restrained weights",
				VisualEffects:      "Minimal shadows, straight edges, muted gradients",
				EnergyLevel:        "medium",
				KeyCharacteristics: []string{"Trustworthy tone", "Structured grid", "Business photography"},
			}
		},
	},
}

// Fallback returns the rule-based profile for an industry. It never fails and
// always reports analyzed=false with analysisType "fallback".
func Fallback(industry string) types.VisualStyleProfile {
	needle := strings.ToLower(strings.TrimSpace(industry))
	for _, rule := range fallbackRules {
		if rule.matches(needle) {
			p := rule.profile()
			p.Analyzed = false
			p.AnalysisType = types.AnalysisFallback
			return p
		}
	}
	// unreachable: the default rule always matches
	return types.VisualStyleProfile{AnalysisType: types.AnalysisFallback}
}
