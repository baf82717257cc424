package generation

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/prompts"
	"github.com/jonathan/brand-content-engine/internal/schemas"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// SalvagedReasoning marks a post whose model output was not valid JSON.
const SalvagedReasoning = "Model response was not structured; the raw text was used as the post."

// PostRequest is the input to post generation.
type PostRequest struct {
	Hook           string               `json:"hook" validate:"required"`
	Pillar         string               `json:"pillar"`
	BrandVoice     *types.RawBrandVoice `json:"brandVoice,omitempty"`
	MeetingSummary string               `json:"meetingSummary,omitempty"`
	HookContext    string               `json:"hookContext,omitempty"`
	TenantID       *uuid.UUID           `json:"tenantId,omitempty"`
}

type postResponse struct {
	Post                    string  `json:"post"`
	Reasoning               string  `json:"reasoning"`
	EstimatedCharacterCount float64 `json:"estimatedCharacterCount"`
}

// GeneratePost turns one hook into a LinkedIn post with an image brief.
func (p *Pipeline) GeneratePost(ctx context.Context, req PostRequest) (*types.Post, error) {
	if strings.TrimSpace(req.Hook) == "" {
		return nil, &ValidationError{Field: "hook", Message: "must not be empty"}
	}
	bv := p.brandVoice(req.BrandVoice)
	if strings.TrimSpace(req.Pillar) == "" {
		req.Pillar = DefaultPillars[0]
	}

	var post *types.Post
	if p.client == nil {
		post = MockPost(req.Hook, req.Pillar, bv)
	} else {
		var err error
		post, err = p.generatePost(ctx, req, bv)
		if err != nil {
			return nil, err
		}
	}

	image, err := p.imagePrompt(ctx, ImageRequest{PostContent: post.Content, TenantID: req.TenantID}, bv)
	if err != nil {
		return nil, err
	}
	post.ImagePrompt = image
	return post, nil
}

func (p *Pipeline) generatePost(ctx context.Context, req PostRequest, bv *types.BrandVoiceContext) (*types.Post, error) {
	body, err := p.template(ctx, req.TenantID, types.KindLinkedInPost)
	if err != nil {
		return nil, err
	}
	prompt := templates.Render(body, types.KindLinkedInPost, mergeValues(templates.FactValues(bv), map[string]string{
		"Hook":           req.Hook,
		"Pillar":         req.Pillar,
		"MeetingSummary": req.MeetingSummary,
		"HookContext":    req.HookContext,
	}))
	prompt += "\n\n" + prompts.MustGet("pipeline.json", "post-output-contract")

	text, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		p.log.Warn("post generation failed, using mock post", "stage", "post", "error", err)
		return MockPost(req.Hook, req.Pillar, bv), nil
	}
	return p.parsePost(text, req, bv), nil
}

// parsePost decodes the structured response. Unstructured but non-empty
// output is kept as the post body.
func (p *Pipeline) parsePost(text string, req PostRequest, bv *types.BrandVoiceContext) *types.Post {
	if doc := llm.ExtractJSON(text); doc != nil {
		if err := schemas.Validate(schemas.Post, doc); err == nil {
			var resp postResponse
			if err := json.Unmarshal(doc, &resp); err == nil {
				return newPost(resp.Post, resp.Reasoning)
			}
		} else {
			p.log.Warn("post response failed schema validation", "stage", "post", "error", err)
		}
	}

	raw := strings.TrimSpace(llm.CleanJSONBlock(text))
	if raw == "" {
		p.log.Warn("post generation returned empty output, using mock post", "stage", "post")
		return MockPost(req.Hook, req.Pillar, bv)
	}
	p.log.Warn("post response was not structured, salvaging raw text", "stage", "post")
	return newPost(raw, SalvagedReasoning)
}

func newPost(content, reasoning string) *types.Post {
	content = strings.TrimSpace(content)
	return &types.Post{
		Content:        content,
		Reasoning:      reasoning,
		CharacterCount: utf8.RuneCountInString(content),
	}
}
