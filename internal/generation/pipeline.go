// Package generation runs the content pipeline: hook extraction, post
// generation, rewrite and image briefs. Every stage has an offline twin that
// returns the same shape when no model is configured or a call fails.
package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// TemplateSource resolves tenant templates get-or-generate.
type TemplateSource interface {
	Get(ctx context.Context, tenantID uuid.UUID, kind types.TemplateKind) (*types.PromptTemplate, error)
}

// Pipeline runs the generation stages. A nil client runs every stage in
// mock mode; a nil TemplateSource always uses the built-in templates.
type Pipeline struct {
	client     llm.Client
	templates  TemplateSource
	log        *logger.Logger
	normalizer brandvoice.Normalizer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExcerptLength sets the website excerpt length used when normalizing
// request brand voice data.
func WithExcerptLength(n int) Option {
	return func(p *Pipeline) { p.normalizer.ExcerptLength = n }
}

// New creates a Pipeline.
func New(client llm.Client, templates TemplateSource, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:    client,
		templates: templates,
		log:       logger.OrNop(log).With("component", "generation"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MockMode reports whether stages run without a model.
func (p *Pipeline) MockMode() bool {
	return p.client == nil
}

// template returns the tenant's template for kind when tenantID is set,
// otherwise the built-in one.
func (p *Pipeline) template(ctx context.Context, tenantID *uuid.UUID, kind types.TemplateKind) (string, error) {
	if tenantID == nil || p.templates == nil {
		return templates.StaticTemplate(kind), nil
	}
	tpl, err := p.templates.Get(ctx, *tenantID, kind)
	if err != nil {
		return "", err
	}
	return tpl.Body, nil
}

// brandVoice normalizes request brand data. Partial or nil input gets the
// industry and default fallbacks.
func (p *Pipeline) brandVoice(raw *types.RawBrandVoice) *types.BrandVoiceContext {
	return p.normalizer.Normalize(raw)
}

func mergeValues(base map[string]string, extra map[string]string) map[string]string {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
