package generation

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// NoTextInstruction is appended to every image brief.
const NoTextInstruction = "CRITICAL: The image must contain absolutely no text, letters, words, numbers, captions, logos with lettering or typography of any kind."

// ImageRequest is the input to an image brief.
type ImageRequest struct {
	PostContent string               `json:"postContent" validate:"required"`
	BrandVoice  *types.RawBrandVoice `json:"brandVoice,omitempty"`
	// Visual overrides the profile carried on BrandVoice.
	Visual   *types.VisualStyleProfile `json:"visualStyle,omitempty"`
	TenantID *uuid.UUID                `json:"tenantId,omitempty"`
}

// ImagePrompt renders the tenant's image template with the visual profile.
// The result always ends with NoTextInstruction.
func (p *Pipeline) ImagePrompt(ctx context.Context, req ImageRequest) (string, error) {
	return p.imagePrompt(ctx, req, p.brandVoice(req.BrandVoice))
}

func (p *Pipeline) imagePrompt(ctx context.Context, req ImageRequest, bv *types.BrandVoiceContext) (string, error) {
	if strings.TrimSpace(req.PostContent) == "" {
		return "", &ValidationError{Field: "postContent", Message: "must not be empty"}
	}
	profile := bv.VisualStyleProfile
	if req.Visual != nil {
		profile = *req.Visual
	}

	body, err := p.template(ctx, req.TenantID, types.KindImage)
	if err != nil {
		return "", err
	}

	colors := bv.Colors
	if profile.ExactColors.Primary != "" {
		colors = nonEmpty(profile.ExactColors.Primary, profile.ExactColors.Secondary, profile.ExactColors.Accent)
	}
	brief := templates.Render(body, types.KindImage, mergeValues(templates.FactValues(bv), map[string]string{
		"PostContent":   truncateRunes(req.PostContent, 500),
		"Mood":          profile.Mood,
		"DesignStyle":   profile.DesignStyle,
		"Colors":        strings.Join(colors, ", "),
		"EnergyLevel":   profile.EnergyLevel,
		"VisualEffects": profile.VisualEffects,
	}))
	return strings.TrimRight(brief, " \t\r\n") + "\n\n" + NoTextInstruction, nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
