package generation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/schemas"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// MaxHooks caps the number of hooks returned from one transcript.
const MaxHooks = 10

// DefaultPillars are used when the caller supplies no content pillars.
var DefaultPillars = []string{"Industry Insights", "Customer Success", "Thought Leadership"}

// HookRequest is the input to hook extraction.
type HookRequest struct {
	Transcript string               `json:"transcript" validate:"required"`
	BrandVoice *types.RawBrandVoice `json:"brandVoice,omitempty"`
	Pillars    []string             `json:"pillars,omitempty"`
	// TenantID selects the tenant's hook template when set.
	TenantID *uuid.UUID `json:"tenantId,omitempty"`
}

// GenerateHooks extracts marketing hooks from a transcript. Model failures
// fall back to mock hooks; only an empty transcript or a template lookup
// failure is returned as an error.
func (p *Pipeline) GenerateHooks(ctx context.Context, req HookRequest) ([]types.Hook, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, &ValidationError{Field: "transcript", Message: "must not be empty"}
	}
	bv := p.brandVoice(req.BrandVoice)
	pillars := cleanPillars(req.Pillars)

	if p.client == nil {
		return MockHooks(req.Transcript, bv, pillars), nil
	}

	body, err := p.template(ctx, req.TenantID, types.KindHook)
	if err != nil {
		return nil, err
	}
	prompt := templates.Render(body, types.KindHook, mergeValues(templates.FactValues(bv), map[string]string{
		"Transcript": req.Transcript,
		"Pillars":    strings.Join(pillars, ", "),
	}))

	text, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		p.log.Warn("hook extraction failed, using mock hooks", "stage", "hooks", "error", err)
		return MockHooks(req.Transcript, bv, pillars), nil
	}
	hooks, ok := p.parseHooks(text, pillars)
	if !ok {
		return MockHooks(req.Transcript, bv, pillars), nil
	}
	return hooks, nil
}

// parseHooks accepts a bare array or an object wrapping it under
// "insights" or "hooks".
func (p *Pipeline) parseHooks(text string, pillars []string) ([]types.Hook, bool) {
	doc := llm.ExtractJSON(text)
	if doc == nil {
		p.log.Warn("hook extraction returned no JSON", "stage", "hooks")
		return nil, false
	}
	if doc[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(doc, &wrapper); err != nil {
			return nil, false
		}
		inner, ok := wrapper["insights"]
		if !ok {
			inner = wrapper["hooks"]
		}
		if inner == nil {
			p.log.Warn("hook extraction object has no insights", "stage", "hooks")
			return nil, false
		}
		doc = inner
	}
	if err := schemas.Validate(schemas.Hooks, doc); err != nil {
		p.log.Warn("hook extraction failed schema validation", "stage", "hooks", "error", err)
		return nil, false
	}
	var hooks []types.Hook
	if err := json.Unmarshal(doc, &hooks); err != nil {
		return nil, false
	}
	if len(hooks) > MaxHooks {
		hooks = hooks[:MaxHooks]
	}
	for i := range hooks {
		if strings.TrimSpace(hooks[i].Pillar) == "" {
			hooks[i].Pillar = pillars[i%len(pillars)]
		}
	}
	return hooks, true
}

func cleanPillars(pillars []string) []string {
	out := make([]string, 0, len(pillars))
	for _, p := range pillars {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultPillars...)
	}
	return out
}
