package brandvoice

import (
	"math"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/types"
)

type completenessCheck struct {
	passes     func(*types.RawBrandVoice) bool
	suggestion string
}

var completenessChecks = []completenessCheck{
	{
		passes: func(r *types.RawBrandVoice) bool {
			name := strings.TrimSpace(r.CompanyName)
			return name != "" && name != DefaultCompanyName
		},
		suggestion: "Add your company name",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return strings.TrimSpace(r.Industry) != "" },
		suggestion: "Specify your industry so content uses the right vocabulary",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return strings.TrimSpace(r.TargetAudience) != "" },
		suggestion: "Describe your target audience",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return strings.TrimSpace(r.Tone) != "" },
		suggestion: "Define your brand tone of voice",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return strings.TrimSpace(r.WebsiteContent) != "" },
		suggestion: "Analyze your website to capture how your brand already writes",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return len(cleanList(r.Keywords)) > 0 },
		suggestion: "Add keywords your brand wants to be known for",
	},
	{
		passes:     func(r *types.RawBrandVoice) bool { return len(cleanList(r.Colors)) > 0 },
		suggestion: "Add your brand colors for on-brand images",
	},
}

// ValidateCompleteness scores raw brand data 0-100 by the share of
// completeness checks that pass and suggests fixes for the rest.
func ValidateCompleteness(raw *types.RawBrandVoice) types.Completeness {
	if raw == nil {
		raw = &types.RawBrandVoice{}
	}
	passed := 0
	suggestions := []string{}
	for _, check := range completenessChecks {
		if check.passes(raw) {
			passed++
			continue
		}
		suggestions = append(suggestions, check.suggestion)
	}
	return types.Completeness{
		Score:       int(math.Round(float64(passed) * 100 / float64(len(completenessChecks)))),
		Suggestions: suggestions,
	}
}
