package generation

import (
	"context"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// RewriteRequest is the input to a rewrite.
type RewriteRequest struct {
	Content      string               `json:"content" validate:"required"`
	Instructions string               `json:"instructions" validate:"required"`
	BrandVoice   *types.RawBrandVoice `json:"brandVoice,omitempty"`
}

// Rewrite returns a full replacement of the post following the instructions.
func (p *Pipeline) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", &ValidationError{Field: "content", Message: "must not be empty"}
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return "", &ValidationError{Field: "instructions", Message: "must not be empty"}
	}
	if p.client == nil {
		return MockRewrite(req.Content, req.Instructions), nil
	}

	bv := p.brandVoice(req.BrandVoice)
	prompt := prompts.Format(prompts.MustGet("pipeline.json", "rewrite-post"), mergeValues(templates.FactValues(bv), map[string]string{
		"Content":      req.Content,
		"Instructions": req.Instructions,
	}))

	text, err := p.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		p.log.Warn("rewrite failed, using mock rewrite", "stage", "rewrite", "error", err)
		return MockRewrite(req.Content, req.Instructions), nil
	}
	out := cleanRewrite(text)
	if out == "" {
		p.log.Warn("rewrite returned empty output, using mock rewrite", "stage", "rewrite")
		return MockRewrite(req.Content, req.Instructions), nil
	}
	return out, nil
}

// cleanRewrite strips a code fence or surrounding quotes from model output.
func cleanRewrite(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = strings.TrimSuffix(strings.TrimSpace(text[i+1:]), "```")
		} else {
			text = ""
		}
	}
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && strings.Count(text, `"`) == 2 {
		text = text[1 : len(text)-1]
	}
	return strings.TrimSpace(text)
}
