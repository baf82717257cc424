package templates

import (
	"strings"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/types"
)

type inputField struct {
	key   string
	label string
}

// inputFields lists, per kind, the placeholders filled with per-call input.
// The first entry is the primary placeholder.
var inputFields = map[types.TemplateKind][]inputField{
	types.KindLinkedInPost: {
		{"Hook", "Hook"},
		{"Pillar", "Content pillar"},
		{"MeetingSummary", "Meeting context"},
		{"HookContext", "Insight details"},
	},
	types.KindHook: {
		{"Transcript", "Transcript"},
		{"Pillars", "Content pillars"},
	},
	types.KindImage: {
		{"PostContent", "Post"},
		{"Mood", "Mood"},
		{"DesignStyle", "Design style"},
		{"Colors", "Brand colors"},
		{"EnergyLevel", "Energy level"},
		{"VisualEffects", "Visual effects"},
	},
}

// factKeys are the brand placeholders every template may reference.
var factKeys = []string{"CompanyName", "Industry", "TargetAudience", "Tone", "Keywords", "PainPoints", "WebsiteExcerpt", "BrandVoice"}

// PrimaryPlaceholder returns the placeholder a template of kind must carry
// for its main input.
func PrimaryPlaceholder(kind types.TemplateKind) string {
	fields := inputFields[kind]
	if len(fields) == 0 {
		return ""
	}
	return fields[0].key
}

// FactValues returns the brand placeholder values for bv. BrandVoice holds
// the narrative rendering of the whole context.
func FactValues(bv *types.BrandVoiceContext) map[string]string {
	return map[string]string{
		"CompanyName":    bv.CompanyName,
		"Industry":       bv.Industry,
		"TargetAudience": bv.TargetAudience,
		"Tone":           bv.Tone,
		"Keywords":       strings.Join(bv.Keywords, ", "),
		"PainPoints":     strings.Join(bv.PainPoints, ", "),
		"WebsiteExcerpt": bv.WebsiteContentExcerpt,
		"BrandVoice":     brandvoice.Format(bv, brandvoice.ModeNarrative),
	}
}

// Render substitutes every recognized placeholder in body. Recognized
// placeholders without a value render empty. When body lacks the primary
// placeholder for kind, the input values are appended as an INPUT DATA
// section instead.
func Render(body string, kind types.TemplateKind, values map[string]string) string {
	data := make(map[string]string, len(values)+len(factKeys))
	for _, k := range factKeys {
		data[k] = ""
	}
	for _, f := range inputFields[kind] {
		data[f.key] = ""
	}
	for k, v := range values {
		data[k] = v
	}

	out := prompts.Format(body, data)

	primary := PrimaryPlaceholder(kind)
	if primary == "" || prompts.HasPlaceholder(body, primary) {
		return out
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(out, " \t\r\n"))
	sb.WriteString("\n\nINPUT DATA\n")
	for _, f := range inputFields[kind] {
		v := strings.TrimSpace(values[f.key])
		if v == "" {
			continue
		}
		sb.WriteString(f.label)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return sb.String()
}
