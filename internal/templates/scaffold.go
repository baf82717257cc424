package templates

import (
	"fmt"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// Scaffold is a versioned meta-prompt that asks a model to author a template.
type Scaffold struct {
	Kind    types.TemplateKind
	Version string
	Tier    llm.ModelTier
	// MinLength is the shortest generated body accepted as a real template.
	MinLength int
	// ExcerptLength caps the website excerpt substituted into the scaffold.
	ExcerptLength int
}

var scaffolds = map[types.TemplateKind]Scaffold{
	types.KindLinkedInPost: {Kind: types.KindLinkedInPost, Version: "linkedin-post-v3", Tier: llm.TierAdvanced, MinLength: 400, ExcerptLength: 1500},
	types.KindHook:         {Kind: types.KindHook, Version: "hook-v2", Tier: llm.TierStandard, MinLength: 200},
	types.KindImage:        {Kind: types.KindImage, Version: "image-v2", Tier: llm.TierStandard, MinLength: 150},
}

// ScaffoldFor returns the current scaffold for kind.
func ScaffoldFor(kind types.TemplateKind) (Scaffold, bool) {
	s, ok := scaffolds[kind]
	return s, ok
}

// TenantFacts are the brand facts substituted into a scaffold.
type TenantFacts struct {
	CompanyName    string
	Industry       string
	TargetAudience string
	Tone           string
	Keywords       []string
	PainPoints     []string
	WebsiteExcerpt string
}

// FactsFrom extracts scaffold facts from a normalized context.
func FactsFrom(bv *types.BrandVoiceContext) TenantFacts {
	return TenantFacts{
		CompanyName:    bv.CompanyName,
		Industry:       bv.Industry,
		TargetAudience: bv.TargetAudience,
		Tone:           bv.Tone,
		Keywords:       bv.Keywords,
		PainPoints:     bv.PainPoints,
		WebsiteExcerpt: bv.WebsiteContentExcerpt,
	}
}

// TemplateRequest is a fully built meta-prompt ready for a model call.
type TemplateRequest struct {
	Kind            types.TemplateKind
	ScaffoldVersion string
	Tier            llm.ModelTier
	Prompt          string
}

// BuildRequest substitutes facts into the scaffold for kind. It performs no I/O.
func BuildRequest(kind types.TemplateKind, facts TenantFacts) (TemplateRequest, error) {
	s, ok := scaffolds[kind]
	if !ok {
		return TemplateRequest{}, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown template kind %q", kind)}
	}
	scaffold, err := prompts.Get("scaffolds.json", s.Version)
	if err != nil {
		return TemplateRequest{}, err
	}

	excerpt := facts.WebsiteExcerpt
	if s.ExcerptLength > 0 {
		if r := []rune(excerpt); len(r) > s.ExcerptLength {
			excerpt = string(r[:s.ExcerptLength])
		}
	}
	if strings.TrimSpace(excerpt) == "" {
		excerpt = "(no website content available)"
	}

	// Only fact keys are substituted. Input placeholders such as {{.Hook}}
	// must reach the model literally.
	prompt := prompts.Format(scaffold, map[string]string{
		"CompanyName":    facts.CompanyName,
		"Industry":       facts.Industry,
		"TargetAudience": facts.TargetAudience,
		"Tone":           facts.Tone,
		"Keywords":       strings.Join(facts.Keywords, ", "),
		"PainPoints":     strings.Join(facts.PainPoints, ", "),
		"WebsiteExcerpt": excerpt,
	})

	return TemplateRequest{Kind: kind, ScaffoldVersion: s.Version, Tier: s.Tier, Prompt: prompt}, nil
}

// StaticTemplate returns the built-in template for kind.
func StaticTemplate(kind types.TemplateKind) string {
	body, err := prompts.Get("templates.json", string(kind))
	if err != nil {
		return ""
	}
	if kind == types.KindLinkedInPost {
		body = EnsureOutputFormatGuardrails(body)
	}
	return body
}

// cleanTemplate strips a surrounding code fence and whitespace from model output.
func cleanTemplate(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
