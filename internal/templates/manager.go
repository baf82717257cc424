// Package templates generates, stores and serves per-tenant instruction
// templates. Templates are authored by a model from a versioned scaffold
// (meta-prompting) and fall back to static built-ins when that fails.
package templates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// Manager serves tenant templates. A nil client always uses static templates.
type Manager struct {
	store      Store
	client     llm.Client
	log        *logger.Logger
	normalizer brandvoice.Normalizer
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithExcerptLength sets the website excerpt length used when normalizing.
func WithExcerptLength(n int) Option {
	return func(m *Manager) { m.normalizer.ExcerptLength = n }
}

// NewManager creates a Manager.
func NewManager(store Store, client llm.Client, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		client: client,
		log:    logger.OrNop(log).With("component", "templates"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the stored template for kind, generating and persisting one
// only when none exists. A stored linkedin_post body is returned with the
// output format rules applied.
func (m *Manager) Get(ctx context.Context, tenantID uuid.UUID, kind types.TemplateKind) (*types.PromptTemplate, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	tenant, err := m.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if stored, ok := tenant.Prompt(kind); ok {
		if kind == types.KindLinkedInPost {
			stored.Body = EnsureOutputFormatGuardrails(stored.Body)
		}
		return m.toTemplate(tenant, kind, stored), nil
	}

	stored := types.StoredPrompt{Body: m.generate(ctx, tenant, kind), GeneratedAt: m.timestamp()}
	if err := m.save(ctx, tenant, kind, stored); err != nil {
		return nil, err
	}
	return m.toTemplate(tenant, kind, stored), nil
}

// Generate builds a template for kind without persisting it.
func (m *Manager) Generate(ctx context.Context, tenantID uuid.UUID, kind types.TemplateKind) (string, error) {
	if err := validateKind(kind); err != nil {
		return "", err
	}
	tenant, err := m.store.GetTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return m.generate(ctx, tenant, kind), nil
}

// Regenerate always generates a fresh template and overwrites the stored
// one, including hand-edited templates.
func (m *Manager) Regenerate(ctx context.Context, tenantID uuid.UUID, kind types.TemplateKind) (*types.PromptTemplate, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	tenant, err := m.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stored := types.StoredPrompt{Body: m.generate(ctx, tenant, kind), GeneratedAt: m.timestamp()}
	if err := m.save(ctx, tenant, kind, stored); err != nil {
		return nil, err
	}
	return m.toTemplate(tenant, kind, stored), nil
}

// Update stores a hand-edited template body.
func (m *Manager) Update(ctx context.Context, tenantID uuid.UUID, kind types.TemplateKind, body string) (*types.PromptTemplate, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "prompt", Message: "must not be empty"}
	}
	tenant, err := m.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if kind == types.KindLinkedInPost {
		body = EnsureOutputFormatGuardrails(body)
	}
	previous, _ := tenant.Prompt(kind)
	stored := types.StoredPrompt{Body: body, GeneratedAt: previous.GeneratedAt, ModifiedAt: m.timestamp()}
	if err := m.save(ctx, tenant, kind, stored); err != nil {
		return nil, err
	}
	return m.toTemplate(tenant, kind, stored), nil
}

// Invalidate clears every generated template so the next Get regenerates it
// from current brand data. Hand-edited templates are kept. It returns the
// kinds that were cleared.
func (m *Manager) Invalidate(ctx context.Context, tenantID uuid.UUID) ([]types.TemplateKind, error) {
	tenant, err := m.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var kinds []types.TemplateKind
	for _, kind := range types.AllTemplateKinds {
		if stored, ok := tenant.Prompt(kind); ok && stored.ModifiedAt == nil {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return nil, nil
	}
	if err := m.store.ClearPrompts(ctx, tenantID, kinds); err != nil {
		return nil, err
	}
	m.log.Info("invalidated generated templates", "tenant_id", tenantID, "kinds", kinds)
	return kinds, nil
}

// BrandVoice returns the tenant's normalized brand voice.
func (m *Manager) BrandVoice(tenant *types.Tenant) *types.BrandVoiceContext {
	return m.normalizer.Normalize(RawBrandVoice(tenant))
}

// RawBrandVoice returns a copy of the tenant's stored brand data with the
// tenant name standing in for a missing company name.
func RawBrandVoice(tenant *types.Tenant) *types.RawBrandVoice {
	var raw types.RawBrandVoice
	if tenant.BrandVoiceData != nil {
		raw = *tenant.BrandVoiceData
	}
	if strings.TrimSpace(raw.CompanyName) == "" {
		raw.CompanyName = tenant.Name
	}
	return &raw
}

// generate never fails: every error path returns the static template.
func (m *Manager) generate(ctx context.Context, tenant *types.Tenant, kind types.TemplateKind) string {
	if m.client == nil {
		m.log.Debug("no model configured, using static template", "kind", kind)
		return StaticTemplate(kind)
	}

	bv := m.BrandVoice(tenant)
	if kind == types.KindLinkedInPost {
		bv = m.AutoDetectIndustryAndICP(ctx, bv)
	}

	req, err := BuildRequest(kind, FactsFrom(bv))
	if err != nil {
		m.log.Warn("could not build template request", "kind", kind, "error", err)
		return StaticTemplate(kind)
	}

	text, err := m.client.GenerateContent(ctx, req.Prompt, req.Tier)
	if err != nil {
		m.log.Warn("template generation failed, using static template", "kind", kind, "scaffold", req.ScaffoldVersion, "error", err)
		return StaticTemplate(kind)
	}

	body := cleanTemplate(text)
	if s, _ := ScaffoldFor(kind); len(body) < s.MinLength {
		m.log.Warn("generated template too short, using static template", "kind", kind, "length", len(body))
		return StaticTemplate(kind)
	}
	if kind == types.KindLinkedInPost {
		body = EnsureOutputFormatGuardrails(body)
	}
	m.log.Info("generated template", "tenant_id", tenant.ID, "kind", kind, "scaffold", req.ScaffoldVersion)
	return body
}

func (m *Manager) save(ctx context.Context, tenant *types.Tenant, kind types.TemplateKind, stored types.StoredPrompt) error {
	if err := m.store.SavePrompt(ctx, tenant.ID, kind, stored); err != nil {
		return err
	}
	if tenant.Prompts == nil {
		tenant.Prompts = make(map[types.TemplateKind]types.StoredPrompt)
	}
	tenant.Prompts[kind] = stored
	return nil
}

func (m *Manager) toTemplate(tenant *types.Tenant, kind types.TemplateKind, stored types.StoredPrompt) *types.PromptTemplate {
	return &types.PromptTemplate{
		TenantID:     tenant.ID,
		Kind:         kind,
		Body:         stored.Body,
		GeneratedAt:  stored.GeneratedAt,
		LastModified: stored.ModifiedAt,
		IsCustom:     tenant.HasCustomPrompts(),
		CompanyName:  m.BrandVoice(tenant).CompanyName,
	}
}

func (m *Manager) timestamp() *time.Time {
	t := m.now()
	return &t
}

func validateKind(kind types.TemplateKind) error {
	if !kind.Valid() {
		return &ValidationError{Field: "kind", Message: "must be one of linkedin_post, hook, image"}
	}
	return nil
}
