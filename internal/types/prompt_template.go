package types

import (
	"time"

	"github.com/google/uuid"
)

// TemplateKind identifies one of the per-tenant instruction templates.
type TemplateKind string

// Template kinds
const (
	KindLinkedInPost TemplateKind = "linkedin_post"
	KindHook         TemplateKind = "hook"
	KindImage        TemplateKind = "image"
)

// AllTemplateKinds lists every template kind in a stable order.
var AllTemplateKinds = []TemplateKind{KindLinkedInPost, KindHook, KindImage}

// Valid reports whether k is a known template kind.
func (k TemplateKind) Valid() bool {
	switch k {
	case KindLinkedInPost, KindHook, KindImage:
		return true
	}
	return false
}

// PromptTemplate is a tenant-specific instruction template.
type PromptTemplate struct {
	TenantID     uuid.UUID    `json:"tenantId"`
	Kind         TemplateKind `json:"kind"`
	Body         string       `json:"prompt"`
	GeneratedAt  *time.Time   `json:"lastGenerated,omitempty"`
	LastModified *time.Time   `json:"lastModified,omitempty"`
	IsCustom     bool         `json:"isCustom"`
	CompanyName  string       `json:"companyName"`
}

// StoredPrompt is one template slot on the tenant record.
type StoredPrompt struct {
	Body        string     `json:"body"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	// ModifiedAt is set only when the body was edited by hand.
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

// Tenant is the company record owning brand voice data and templates.
type Tenant struct {
	ID             uuid.UUID                     `json:"id"`
	Name           string                        `json:"name"`
	BrandVoiceData *RawBrandVoice                `json:"brandVoiceData,omitempty"`
	Prompts        map[TemplateKind]StoredPrompt `json:"prompts,omitempty"`
	ContentPillars []string                      `json:"contentPillars"`
	CreatedAt      time.Time                     `json:"createdAt"`
	UpdatedAt      time.Time                     `json:"updatedAt"`
}

// Prompt returns the stored template for kind, if any.
func (t *Tenant) Prompt(kind TemplateKind) (StoredPrompt, bool) {
	if t == nil || t.Prompts == nil {
		return StoredPrompt{}, false
	}
	p, ok := t.Prompts[kind]
	if !ok || p.Body == "" {
		return StoredPrompt{}, false
	}
	return p, true
}

// HasCustomPrompts reports whether any template has been materialized for the tenant.
func (t *Tenant) HasCustomPrompts() bool {
	for _, kind := range AllTemplateKinds {
		if _, ok := t.Prompt(kind); ok {
			return true
		}
	}
	return false
}
